package models

import "github.com/uptrace/bun"

type ConfigEntry struct {
	bun.BaseModel `bun:"table:config,alias:cfg"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}
