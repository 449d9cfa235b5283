// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
// - base.go: Base persistence models (BaseModel, AggregateModel)
// - fund.go: Fund context models (Entity, Investment, CapitalCall and its bill links)
// - billing.go: Billing context models (Bill)
//
// Column names of the bills table are consumed by reporting outside this
// service and must not be renamed.
package models
