package main

import "campus-navi/cmd"

func main() {
	cmd.Execute()
}
