package mock_orchestrator

import (
	orchestrator "github.com/quay/hound/orchestrator"
)

type (
	Verifier     = orchestrator.Verifier
	Orchestrator = orchestrator.Orchestrator
)
