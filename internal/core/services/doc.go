// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// ExtractionService is the pipeline controller. WatchService, HistoryService
// and SettingsService build on it and on the run ledger and config store.
package services
