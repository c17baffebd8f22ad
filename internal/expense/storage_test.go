package expense

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage *LocalStorage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		storage, err = NewLocalStorage(filepath.Join(tmpDir, "photos"))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewLocalStorage", func() {
		It("should create the storage directory", func() {
			info, err := os.Stat(filepath.Join(tmpDir, "photos"))
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		})
	})

	Describe("Save", func() {
		It("should write the photo and return its reference", func() {
			path, err := storage.Save("id-1_ticket.jpg", []byte("image bytes"))
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal("id-1_ticket.jpg"))

			data, err := os.ReadFile(filepath.Join(tmpDir, "photos", "id-1_ticket.jpg"))
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal([]byte("image bytes")))
		})
	})

	Describe("Get", func() {
		When("the photo exists", func() {
			BeforeEach(func() {
				_, err := storage.Save("id-1_ticket.jpg", []byte("image bytes"))
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the stored bytes", func() {
				data, err := storage.Get("id-1_ticket.jpg")
				Expect(err).NotTo(HaveOccurred())
				Expect(data).To(Equal([]byte("image bytes")))
			})
		})

		When("the photo does not exist", func() {
			It("should return an error", func() {
				_, err := storage.Get("missing.jpg")
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("Delete", func() {
		When("the photo exists", func() {
			BeforeEach(func() {
				_, err := storage.Save("id-1_ticket.jpg", []byte("image bytes"))
				Expect(err).NotTo(HaveOccurred())
			})

			It("should remove the file", func() {
				Expect(storage.Delete("id-1_ticket.jpg")).To(Succeed())
				_, err := os.Stat(filepath.Join(tmpDir, "photos", "id-1_ticket.jpg"))
				Expect(os.IsNotExist(err)).To(BeTrue())
			})
		})

		When("the photo does not exist", func() {
			It("should return an error", func() {
				Expect(storage.Delete("missing.jpg")).NotTo(Succeed())
			})
		})
	})
})
