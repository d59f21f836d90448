package services

import (
	"time"

	"backend/models"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ReportCache keeps recently assembled project report models so that
// generating the spreadsheet and the document back to back does not
// re-run the batch queries. Entries expire; renders always see a model
// at most one TTL old.
type ReportCache struct {
	lru *expirable.LRU[int, *models.ProjectReport]
}

// NewReportCache creates a cache holding up to size models for ttl.
func NewReportCache(size int, ttl time.Duration) *ReportCache {
	return &ReportCache{lru: expirable.NewLRU[int, *models.ProjectReport](size, nil, ttl)}
}

func (c *ReportCache) Get(projectID int) (*models.ProjectReport, bool) {
	return c.lru.Get(projectID)
}

func (c *ReportCache) Add(projectID int, report *models.ProjectReport) {
	c.lru.Add(projectID, report)
}

// Invalidate drops a project's cached model, called by the mutating
// CRUD handlers so the next report reflects the change immediately.
func (c *ReportCache) Invalidate(projectID int) {
	c.lru.Remove(projectID)
}
