package expense

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ClassifyTrip", func() {
	It("should classify values containing per as personal", func() {
		Expect(ClassifyTrip("personal")).To(Equal(TripPersonal))
		Expect(ClassifyTrip("PERSONAL TRIP")).To(Equal(TripPersonal))
		Expect(ClassifyTrip("PER_DIEM")).To(Equal(TripPersonal))
	})

	It("should classify everything else as company", func() {
		Expect(ClassifyTrip("empresa")).To(Equal(TripCompany))
		Expect(ClassifyTrip("Empresa")).To(Equal(TripCompany))
		Expect(ClassifyTrip("")).To(Equal(TripCompany))
		Expect(ClassifyTrip("unknown")).To(Equal(TripCompany))
	})
})

var _ = Describe("Expense decoding", func() {
	var (
		input string
		rec   Expense
		err   error
	)

	JustBeforeEach(func() {
		rec = Expense{}
		err = json.Unmarshal([]byte(input), &rec)
	})

	When("the document is well-formed", func() {
		BeforeEach(func() {
			input = `{"id":"e1","date":"2024-03-05","amount":45.5,"provider":"Cepsa","category":"gasolina","paidWith":"personal","notes":"n"}`
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should decode the date to a UTC day", func() {
			Expect(rec.Date).To(Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
		})

		It("should decode the amount", func() {
			Expect(rec.Amount).To(Equal(45.5))
		})

		It("should report nothing degraded", func() {
			Expect(rec.Degraded).To(BeEmpty())
		})
	})

	When("the amount is a numeric string", func() {
		BeforeEach(func() {
			input = `{"id":"e1","date":"2024-03-05","amount":"30.5"}`
		})

		It("should coerce the string to a number", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Amount).To(Equal(30.5))
			Expect(rec.Degraded).To(BeEmpty())
		})
	})

	When("the amount is corrupt", func() {
		BeforeEach(func() {
			input = `{"id":"e1","date":"2024-03-05","amount":"30.5abc"}`
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should coerce the amount to zero", func() {
			Expect(rec.Amount).To(BeZero())
		})

		It("should record the degraded field", func() {
			Expect(rec.Degraded).To(ConsistOf("amount"))
		})
	})

	When("the date is unparseable", func() {
		BeforeEach(func() {
			input = `{"id":"e1","date":"not a date","amount":10}`
		})

		It("should leave the date zero and record it as degraded", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Date.IsZero()).To(BeTrue())
			Expect(rec.Degraded).To(ConsistOf("date"))
		})
	})

	When("the date is an RFC3339 timestamp", func() {
		BeforeEach(func() {
			input = `{"id":"e1","date":"2024-03-05T17:45:00+02:00","amount":10}`
		})

		It("should truncate to the UTC day", func() {
			Expect(rec.Date).To(Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("the date is epoch milliseconds", func() {
		BeforeEach(func() {
			input = `{"id":"e1","date":1709596800000,"amount":10}`
		})

		It("should decode the day", func() {
			Expect(rec.Date).To(Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("a negative amount is stored", func() {
		BeforeEach(func() {
			input = `{"id":"e1","date":"2024-03-05","amount":-5}`
		})

		It("should pass the value through unvalidated", func() {
			Expect(rec.Amount).To(Equal(-5.0))
			Expect(rec.Degraded).To(BeEmpty())
		})
	})
})

var _ = Describe("Mileage decoding", func() {
	var (
		input string
		rec   Mileage
		err   error
	)

	JustBeforeEach(func() {
		rec = Mileage{}
		err = json.Unmarshal([]byte(input), &rec)
	})

	When("distance is stored under km", func() {
		BeforeEach(func() {
			input = `{"id":"m1","date":"2024-03-10","km":20,"type":"personal","fuelPrice":1.5}`
		})

		It("should decode the distance", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Distance).To(Equal(20.0))
		})
	})

	When("distance is stored under the legacy distance field", func() {
		BeforeEach(func() {
			input = `{"id":"m1","date":"2024-03-10","distance":35,"type":"empresa"}`
		})

		It("should decode the distance", func() {
			Expect(rec.Distance).To(Equal(35.0))
		})
	})

	When("both km and distance are present", func() {
		BeforeEach(func() {
			input = `{"id":"m1","date":"2024-03-10","km":20,"distance":99,"type":"empresa"}`
		})

		It("should prefer km", func() {
			Expect(rec.Distance).To(Equal(20.0))
		})
	})

	When("the fuel price is null", func() {
		BeforeEach(func() {
			input = `{"id":"m1","date":"2024-03-10","km":20,"type":"personal","fuelPrice":null}`
		})

		It("should decode to zero without degradation", func() {
			Expect(rec.FuelPrice).To(BeZero())
			Expect(rec.Degraded).To(BeEmpty())
		})
	})

	When("the record carries an explicit trip type", func() {
		BeforeEach(func() {
			input = `{"id":"m1","date":"2024-03-10","km":20,"type":"whatever","tripType":"personal"}`
		})

		It("should classify from the explicit type", func() {
			Expect(rec.Classify()).To(Equal(TripPersonal))
		})
	})

	When("the record predates explicit trip types", func() {
		BeforeEach(func() {
			input = `{"id":"m1","date":"2024-03-10","km":20,"type":"Personal"}`
		})

		It("should fall back to the free-text match", func() {
			Expect(rec.Classify()).To(Equal(TripPersonal))
		})
	})
})

var _ = Describe("EffectiveConsumption", func() {
	It("should default when absent or non-positive", func() {
		Expect(Mileage{}.EffectiveConsumption()).To(Equal(DefaultConsumption))
		Expect(Mileage{Consumption: -1}.EffectiveConsumption()).To(Equal(DefaultConsumption))
	})

	It("should use the stored rate when positive", func() {
		Expect(Mileage{Consumption: 5.2}.EffectiveConsumption()).To(Equal(5.2))
	})
})
