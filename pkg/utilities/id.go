package utilities

import (
	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

// IDGenerator produces unique string ids from a fixed snowflake node.
type IDGenerator struct {
	node *snowflake.Node
}

// NewIDGenerator returns a generator for nodeID, which must be in 0-1023.
func NewIDGenerator(nodeID int64) (*IDGenerator, error) {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &IDGenerator{node: n}, nil
}

func (g *IDGenerator) Next() string {
	return g.node.Generate().String()
}
