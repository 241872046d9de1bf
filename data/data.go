package data

import _ "embed"

// CampusLayout 内置的校园布局 (YAML)
//
//go:embed campus.yaml
var CampusLayout []byte

// SeedBuildings 首次启动时导入数据库的建筑数据 (JSON)
//
//go:embed buildings.json
var SeedBuildings []byte
