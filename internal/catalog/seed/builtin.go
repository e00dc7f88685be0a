package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"

	"github.com/oneai-dev/oneai/pkg/models"
)

//go:embed seed.json
var builtinSeedData []byte

// Registrar is the slice of the catalog service the importer needs.
type Registrar interface {
	CreateAgent(ctx context.Context, req *models.CreateAgentRequest) (*models.AgentRecord, error)
}

// ImportBuiltinSeedData registers the embedded sample agents. Failures on
// individual entries are logged and skipped so one bad entry cannot block
// startup.
func ImportBuiltinSeedData(ctx context.Context, registrar Registrar) error {
	requests, err := loadSeedData(builtinSeedData)
	if err != nil {
		return err
	}

	for _, req := range requests {
		if _, err := registrar.CreateAgent(ctx, req); err != nil {
			log.Printf("failed to import seed agent %q: %v", req.Name, err)
		}
	}

	return nil
}

func loadSeedData(data []byte) ([]*models.CreateAgentRequest, error) {
	var requests []*models.CreateAgentRequest
	if err := json.Unmarshal(data, &requests); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return requests, nil
}
