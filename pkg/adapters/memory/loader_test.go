package memory_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/nexus/pkg/adapters/memory"
	"github.com/aretw0/nexus/pkg/domain"
	contract "github.com/aretw0/nexus/pkg/ports/tests"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	data := map[string]string{
		"demo":  `{"id": "demo", "nodes": [], "edges": []}`,
		"nexus": `{"id": "nexus", "nodes": [], "edges": []}`,
	}

	bytesData := make(map[string][]byte)
	for k, v := range data {
		bytesData[k] = []byte(v)
	}

	loader := memory.NewLoader(data)

	contract.SceneLoaderContractTest(t, loader, bytesData)
}

func TestNewFromDefinitions(t *testing.T) {
	def := &domain.Definition{
		ID:    "built",
		Nodes: []domain.NodeSpec{{ID: "a", Category: domain.CategoryML}},
	}

	loader, err := memory.NewFromDefinitions(def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := loader.GetScene("built")
	if err != nil {
		t.Fatalf("GetScene failed: %v", err)
	}

	var got domain.Definition
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("stored bytes are not valid JSON: %v", err)
	}
	if got.ID != "built" || len(got.Nodes) != 1 {
		t.Errorf("definition did not round-trip: %+v", got)
	}
}

func TestNewFromDefinitionsRejectsMissingID(t *testing.T) {
	if _, err := memory.NewFromDefinitions(&domain.Definition{}); err == nil {
		t.Error("expected error for definition without ID")
	}
}
