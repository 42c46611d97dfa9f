package storage

import "rental-analytics/models"

// ReportWriter is the interface any report snapshot backend must satisfy.
type ReportWriter interface {
	Write(report *models.Report) error
	Close() error
}
