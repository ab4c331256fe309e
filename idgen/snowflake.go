package idgen

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	mu   sync.Mutex
	node *snowflake.Node
)

// Init sets the snowflake node used for every generated id.
func Init(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return fmt.Errorf("init snowflake: %w", err)
	}
	mu.Lock()
	node = n
	mu.Unlock()
	return nil
}

func current() *snowflake.Node {
	mu.Lock()
	defer mu.Unlock()
	if node == nil {
		// node 1 always exists, so the error is impossible here
		node, _ = snowflake.NewNode(1)
	}
	return node
}

func GenerateID() int64 {
	return current().Generate().Int64()
}

// NewID returns a fresh identity as a decimal string.
func NewID() string {
	return current().Generate().String()
}
