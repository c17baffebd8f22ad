package expense

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	expenseBucketName = "expenses"
	mileageBucketName = "mileage"
)

// DB defines the interface for record persistence.
type DB interface {
	// SaveExpense saves an expense record
	SaveExpense(rec *Expense) error

	// GetExpense retrieves an expense by ID
	GetExpense(id string) (*Expense, error)

	// ListExpenses returns all expense records
	ListExpenses() ([]*Expense, error)

	// DeleteExpense removes an expense record
	DeleteExpense(id string) error

	// SaveMileage saves a mileage record
	SaveMileage(rec *Mileage) error

	// GetMileage retrieves a mileage record by ID
	GetMileage(id string) (*Mileage, error)

	// ListMileage returns all mileage records
	ListMileage() ([]*Mileage, error)

	// DeleteMileage removes a mileage record
	DeleteMileage(id string) error

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	// Create buckets if they don't exist
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(expenseBucketName)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(mileageBucketName)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// SaveExpense saves an expense record
func (b *BoltDB) SaveExpense(rec *Expense) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(expenseBucketName))
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling expense: %w", err)
		}
		return bucket.Put([]byte(rec.ID), data)
	})
}

// GetExpense retrieves an expense by ID
func (b *BoltDB) GetExpense(id string) (*Expense, error) {
	var rec *Expense
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(expenseBucketName))
		data := bucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("expense not found: %s", id)
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListExpenses returns all expense records
func (b *BoltDB) ListExpenses() ([]*Expense, error) {
	records := make([]*Expense, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(expenseBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var rec Expense
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("unmarshaling expense: %w", err)
			}
			records = append(records, &rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteExpense removes an expense record
func (b *BoltDB) DeleteExpense(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(expenseBucketName))
		return bucket.Delete([]byte(id))
	})
}

// SaveMileage saves a mileage record
func (b *BoltDB) SaveMileage(rec *Mileage) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(mileageBucketName))
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling mileage: %w", err)
		}
		return bucket.Put([]byte(rec.ID), data)
	})
}

// GetMileage retrieves a mileage record by ID
func (b *BoltDB) GetMileage(id string) (*Mileage, error) {
	var rec *Mileage
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(mileageBucketName))
		data := bucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("mileage record not found: %s", id)
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListMileage returns all mileage records
func (b *BoltDB) ListMileage() ([]*Mileage, error) {
	records := make([]*Mileage, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(mileageBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var rec Mileage
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("unmarshaling mileage: %w", err)
			}
			records = append(records, &rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteMileage removes a mileage record
func (b *BoltDB) DeleteMileage(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(mileageBucketName))
		return bucket.Delete([]byte(id))
	})
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
