package mock_orchestrator

//go:generate -command mockgen go run go.uber.org/mock/mockgen -destination=./mocks.go github.com/quay/hound/orchestrator
//go:generate mockgen Verifier
