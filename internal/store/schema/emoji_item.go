package schema

import "gorm.io/datatypes"

// Attribute names inside EmojiItem.Attributes
const (
	AttributeCount     = "count"
	AttributeTimestamp = "timestamp"
)

// EmojiItem is one row of the emoji item table. PK is "<emoji_id>|<emoji_name>";
// SK is "METADATA" for the per-emoji summary or "<author_id>|<timestamp>" for an event.
// Remaining item attributes live in a schemaless JSON document.
type EmojiItem struct {
	PK         string            `gorm:"column:pk;primaryKey;type:text"`
	SK         string            `gorm:"column:sk;primaryKey;type:text"`
	Attributes datatypes.JSONMap `gorm:"column:attributes;type:jsonb;not null"`
}

// DefaultTableName is used when no table is configured
const DefaultTableName = "emoji_events"

func (EmojiItem) TableName() string {
	return DefaultTableName
}
