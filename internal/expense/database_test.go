package expense

import (
	"errors"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("SaveExpense", func() {
		var (
			rec *Expense
			err error
		)

		BeforeEach(func() {
			rec = &Expense{
				ID:        "test-id",
				Date:      time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
				Amount:    45.00,
				Provider:  "Bar Manolo",
				Category:  CategoryFood,
				PaidWith:  PaidPersonal,
				CreatedAt: time.Now(),
			}
		})

		JustBeforeEach(func() {
			err = db.SaveExpense(rec)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should save the expense to the database", func() {
				saved, getErr := db.GetExpense("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.ID).To(Equal("test-id"))
			})
		})
	})

	Describe("GetExpense", func() {
		var (
			expenseID string
			rec       *Expense
			err       error
		)

		JustBeforeEach(func() {
			rec, err = db.GetExpense(expenseID)
		})

		When("the expense exists", func() {
			BeforeEach(func() {
				expenseID = "test-id"
				saved := &Expense{
					ID:        "test-id",
					Date:      time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
					Amount:    45.00,
					Provider:  "Bar Manolo",
					Category:  CategoryFood,
					PaidWith:  PaidPersonal,
					CreatedAt: time.Now(),
				}
				Expect(db.SaveExpense(saved)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the correct provider", func() {
				Expect(rec.Provider).To(Equal("Bar Manolo"))
			})

			It("should return the correct amount", func() {
				Expect(rec.Amount).To(Equal(45.00))
			})

			It("should round-trip the date as a UTC day", func() {
				Expect(rec.Date).To(Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
			})
		})

		When("the expense does not exist", func() {
			var expectedErr error

			BeforeEach(func() {
				expenseID = "nonexistent"
				expectedErr = errors.New("expense not found: nonexistent")
			})

			It("returns the error", func() {
				Expect(err).To(MatchError(expectedErr))
			})
		})
	})

	Describe("ListExpenses", func() {
		var (
			records []*Expense
			err     error
		)

		JustBeforeEach(func() {
			records, err = db.ListExpenses()
		})

		When("expenses exist", func() {
			BeforeEach(func() {
				Expect(db.SaveExpense(&Expense{ID: "id1", Provider: "A", CreatedAt: time.Now()})).NotTo(HaveOccurred())
				Expect(db.SaveExpense(&Expense{ID: "id2", Provider: "B", CreatedAt: time.Now()})).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return all expenses", func() {
				Expect(records).To(HaveLen(2))
			})
		})

		When("no expenses exist", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return an empty list", func() {
				Expect(records).To(BeEmpty())
			})
		})
	})

	Describe("DeleteExpense", func() {
		var (
			expenseID string
			err       error
		)

		JustBeforeEach(func() {
			err = db.DeleteExpense(expenseID)
		})

		When("the expense exists", func() {
			BeforeEach(func() {
				expenseID = "test-id"
				Expect(db.SaveExpense(&Expense{ID: "test-id", CreatedAt: time.Now()})).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should remove the expense from the database", func() {
				_, getErr := db.GetExpense("test-id")
				Expect(getErr).To(HaveOccurred())
			})
		})

		When("the expense does not exist", func() {
			BeforeEach(func() {
				expenseID = "nonexistent"
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})
		})
	})

	Describe("SaveMileage", func() {
		var (
			rec *Mileage
			err error
		)

		BeforeEach(func() {
			rec = &Mileage{
				ID:        "trip-1",
				Date:      time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
				Distance:  20,
				Type:      "personal",
				Trip:      TripPersonal,
				FuelPrice: 1.50,
				TotalKm:   1220,
				CreatedAt: time.Now(),
			}
		})

		JustBeforeEach(func() {
			err = db.SaveMileage(rec)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should save the record to the database", func() {
				saved, getErr := db.GetMileage("trip-1")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.ID).To(Equal("trip-1"))
			})
		})
	})

	Describe("GetMileage", func() {
		var (
			mileageID string
			rec       *Mileage
			err       error
		)

		JustBeforeEach(func() {
			rec, err = db.GetMileage(mileageID)
		})

		When("the record exists", func() {
			BeforeEach(func() {
				mileageID = "trip-1"
				saved := &Mileage{
					ID:        "trip-1",
					Date:      time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
					Distance:  20,
					Trip:      TripPersonal,
					TotalKm:   1220,
					CreatedAt: time.Now(),
				}
				Expect(db.SaveMileage(saved)).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should keep the stored trip classification", func() {
				Expect(rec.Trip).To(Equal(TripPersonal))
			})

			It("should keep the odometer total", func() {
				Expect(rec.TotalKm).To(Equal(1220.0))
			})
		})

		When("the record does not exist", func() {
			var expectedErr error

			BeforeEach(func() {
				mileageID = "nonexistent"
				expectedErr = errors.New("mileage record not found: nonexistent")
			})

			It("returns the error", func() {
				Expect(err).To(MatchError(expectedErr))
			})
		})
	})

	Describe("ListMileage", func() {
		var (
			records []*Mileage
			err     error
		)

		JustBeforeEach(func() {
			records, err = db.ListMileage()
		})

		When("records exist", func() {
			BeforeEach(func() {
				Expect(db.SaveMileage(&Mileage{ID: "t1", Distance: 10, CreatedAt: time.Now()})).NotTo(HaveOccurred())
				Expect(db.SaveMileage(&Mileage{ID: "t2", Distance: 30, CreatedAt: time.Now()})).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return all records", func() {
				Expect(records).To(HaveLen(2))
			})
		})

		When("no records exist", func() {
			It("should return an empty list", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(records).To(BeEmpty())
			})
		})
	})

	Describe("DeleteMileage", func() {
		BeforeEach(func() {
			Expect(db.SaveMileage(&Mileage{ID: "t1", Distance: 10, CreatedAt: time.Now()})).NotTo(HaveOccurred())
		})

		It("should remove the record from the database", func() {
			Expect(db.DeleteMileage("t1")).To(Succeed())
			_, getErr := db.GetMileage("t1")
			Expect(getErr).To(HaveOccurred())
		})
	})

	Describe("Close", func() {
		It("should not return an error", func() {
			err := db.Close()
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
