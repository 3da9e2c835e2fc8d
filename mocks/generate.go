package mocks

//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/arvindk1/options-strategy-scanner/internal/provider Provider
//go:generate mockgen -destination=./mock_document_store.go -package=mocks github.com/arvindk1/options-strategy-scanner/internal/store DocumentStore
//go:generate mockgen -destination=./mock_evaluator.go -package=mocks github.com/arvindk1/options-strategy-scanner/internal/strategy Evaluator
//go:generate mockgen -destination=./mock_publisher.go -package=mocks github.com/arvindk1/options-strategy-scanner/internal/events Publisher
//go:generate mockgen -destination=./mock_universe_source.go -package=mocks github.com/arvindk1/options-strategy-scanner/internal/universe Source
