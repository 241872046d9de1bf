package cmd

import (
	"fmt"
	"io"
	"strings"

	"campus-navi/algo"
	"campus-navi/data"
	"campus-navi/db"
	"campus-navi/model"

	"github.com/spf13/cobra"
)

var routeCmd = &cobra.Command{
	Use:   "route <目的地>",
	Short: "离线生成路径并模拟导航 (使用内置建筑数据)",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoute,
}

func init() {
	routeCmd.Flags().String("from", "gate", "起点 ID")
	routeCmd.Flags().String("layout", "", "校园布局 YAML (默认使用内置布局)")
	routeCmd.Flags().Float64("speed", model.SimulatedSpeed, "模拟速度 (画布单位/毫秒)")
	routeCmd.Flags().Float64("step", 500, "输出帧的间隔 (毫秒)")

	rootCmd.AddCommand(routeCmd)
}

func runRoute(cmd *cobra.Command, args []string) error {
	layoutFile, _ := cmd.Flags().GetString("layout")
	from, _ := cmd.Flags().GetString("from")
	speed, _ := cmd.Flags().GetFloat64("speed")
	step, _ := cmd.Flags().GetFloat64("step")

	campus, err := algo.LoadLayout(layoutFile)
	if err != nil {
		return err
	}
	buildings, err := db.ParseBuildings(data.SeedBuildings)
	if err != nil {
		return err
	}
	lookup := make(algo.MapLookup, len(buildings))
	for _, b := range buildings {
		lookup[b.Name] = b.BuildingRect()
	}

	start, ok := campus.StartPoint(from)
	if !ok {
		return fmt.Errorf("起点不存在: %s", from)
	}
	return simulateRoute(cmd.OutOrStdout(), campus, lookup, start, args[0], speed, step)
}

// simulateRoute 用手动调度器跑完整个导航，按 step 毫秒输出一帧
func simulateRoute(w io.Writer, campus *algo.CampusMap, lookup algo.BuildingLookup,
	start model.NamedLocation, destination string, speed, step float64) error {
	if step <= 0 {
		step = 500
	}
	clock := &stepClock{}
	sched := &algo.ManualScheduler{}
	ctrl := algo.NewMapController(campus, lookup, algo.Options{Speed: speed, Clock: clock, Scheduler: sched})
	ctrl.SelectStart(start.Point())

	var frames []algo.Frame
	ctrl.Subscribe(func(f algo.Frame) { frames = append(frames, f) })

	path, info, err := ctrl.StartNavigation(destination)
	if err != nil {
		return err
	}
	for sched.Pending() > 0 {
		clock.now += step
		sched.Fire(clock.now)
	}

	fmt.Fprint(w, FormatRoute(start, destination, path, info, campus))
	for _, f := range frames {
		fmt.Fprintf(w, "  %8.0fms  %5.1f%%  (%6.1f, %6.1f)  航向 %5.1f°  %s\n",
			f.ElapsedMs, f.Progress, f.Position.X, f.Position.Y, f.Heading, f.State)
	}
	return nil
}

type stepClock struct{ now float64 }

func (c *stepClock) NowMs() float64 { return c.now }

// FormatRoute 格式化路径摘要
func FormatRoute(start model.NamedLocation, destination string, path model.Path, info model.RouteInfo, campus *algo.CampusMap) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s -> %s\n", start.Name, destination)
	fmt.Fprintf(&sb, "距离: %d 米, 步行约 %d 分钟, 动画 %.0f 毫秒\n", info.DistanceM, info.WalkMinutes, info.SimulatedMs)
	sb.WriteString("途经:\n")
	hub := campus.Hub()
	for i, p := range path {
		label := ""
		switch {
		case i == 0:
			label = start.Name
		case i == len(path)-1:
			label = destination
		case p == hub:
			label = campus.Layout.Hub.Name
		}
		if zone, ok := campus.ZoneAt(p); ok {
			label += " [" + zone.Label + "]"
		}
		fmt.Fprintf(&sb, "  %d. (%.0f, %.0f) %s\n", i+1, p.X, p.Y, strings.TrimSpace(label))
	}
	return sb.String()
}
