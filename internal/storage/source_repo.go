package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/manav03panchal/punctual/internal/model"
)

// SourceRepo provides operations for calendar feed sources.
type SourceRepo struct {
	db *DB
}

// NewSourceRepo creates a new source repository.
func NewSourceRepo(db *DB) *SourceRepo {
	return &SourceRepo{db: db}
}

// Create validates and stores a new source, generating an ID if absent.
func (r *SourceRepo) Create(source *model.Source) error {
	if source.ID == "" {
		source.ID = uuid.New().String()
		source.Key = model.GenerateSourceKey(source.ID)
	}
	if source.Key == "" {
		source.Key = model.GenerateSourceKey(source.ID)
	}
	if source.CreatedAt.IsZero() {
		source.CreatedAt = time.Now()
	}
	if err := source.Validate(); err != nil {
		return err
	}
	return r.db.Set(source)
}

// Get retrieves a source by ID.
func (r *SourceRepo) Get(id string) (*model.Source, error) {
	source := &model.Source{}
	if err := r.db.Get(model.GenerateSourceKey(id), source); err != nil {
		return nil, err
	}
	return source, nil
}

// GetByName retrieves a source by its user-facing name.
func (r *SourceRepo) GetByName(name string) (*model.Source, error) {
	sources, err := r.List()
	if err != nil {
		return nil, err
	}
	for _, source := range sources {
		if source.Name == name {
			return source, nil
		}
	}
	return nil, ErrKeyNotFound
}

// List retrieves all sources.
func (r *SourceRepo) List() ([]*model.Source, error) {
	return GetAllByPrefix(r.db, model.PrefixSource+":", func() *model.Source {
		return &model.Source{}
	})
}

// Update updates an existing source.
func (r *SourceRepo) Update(source *model.Source) error {
	return r.db.Set(source)
}

// Delete removes a source and is a no-op if it does not exist.
func (r *SourceRepo) Delete(id string) error {
	return r.db.Delete(model.GenerateSourceKey(id))
}

// RecordSync stamps the source with the outcome of a sync attempt.
func (r *SourceRepo) RecordSync(id string, syncErr error) error {
	source, err := r.Get(id)
	if err != nil {
		return err
	}

	source.LastSync = time.Now()
	if syncErr != nil {
		source.LastError = syncErr.Error()
	} else {
		source.LastError = ""
	}

	return r.db.Set(source)
}
