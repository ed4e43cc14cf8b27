package sitedb

import "gorm.io/gorm"

// Store is a typed handle over one record kind inside a tenant database.
// Handing a Store to a caller is what scopes every operation to that tenant;
// there is no constructor that crosses tenants.
type Store[T any] struct {
	db *gorm.DB
}

func NewStore[T any](db *gorm.DB) *Store[T] {
	return &Store[T]{db: db}
}

// Query starts a scoped query for callers that need ordering or range
// conditions beyond the fixed surface below.
func (s *Store[T]) Query() *gorm.DB {
	return s.db.Model(new(T))
}

func (s *Store[T]) Find(conds ...any) ([]T, error) {
	var out []T
	if err := s.db.Find(&out, conds...).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store[T]) FindOne(conds ...any) (*T, error) {
	var rec T
	if err := s.db.First(&rec, conds...).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store[T]) Create(rec *T) error {
	return s.db.Create(rec).Error
}

func (s *Store[T]) InsertMany(recs []T) ([]T, error) {
	if len(recs) == 0 {
		return recs, nil
	}
	if err := s.db.Create(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *Store[T]) FindByIDAndUpdate(id uint, patch map[string]any) (*T, error) {
	var rec T
	if err := s.db.First(&rec, id).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&rec).Updates(patch).Error; err != nil {
		return nil, err
	}
	if err := s.db.First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store[T]) FindByIDAndDelete(id uint) (*T, error) {
	var rec T
	if err := s.db.First(&rec, id).Error; err != nil {
		return nil, err
	}
	if err := s.db.Delete(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store[T]) Count(conds ...any) (int64, error) {
	var n int64
	q := s.db.Model(new(T))
	if len(conds) > 0 {
		q = q.Where(conds[0], conds[1:]...)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
