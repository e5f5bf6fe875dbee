package memory_test

import (
	"testing"

	"github.com/ironsheep/a11y-scan-mcp/internal/store/memory"
	"github.com/ironsheep/a11y-scan-mcp/internal/store/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.TestAll(t, memory.New())
}
