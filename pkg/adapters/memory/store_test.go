package memory_test

import (
	"testing"

	"github.com/aretw0/nexus/pkg/adapters/memory"
	contract "github.com/aretw0/nexus/pkg/ports/tests"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	contract.SnapshotStoreContractTest(t, store)
}
