// Package store holds the persistence layer: one small store per entity,
// each owning its queries over the shared gorm handle. Stores are injected
// into the components that need them so tests can run on isolated databases.
package store

import (
	"encoding/base64"
	"encoding/csv"
	"errors"
	"regexp"
	"strings"

	"github.com/rogelio-fraga-dev/barberbot/internal/models"

	"gorm.io/gorm"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

type ContactStore struct {
	db *gorm.DB
}

func NewContactStore(db *gorm.DB) *ContactStore {
	return &ContactStore{db: db}
}

// FindOrCreate returns the contact for phone, creating it on first sight.
// An existing contact with a placeholder name picks up the pushName when a
// real one arrives.
func (s *ContactStore) FindOrCreate(phone, name string) (*models.Contact, error) {
	var contact models.Contact
	err := s.db.First(&contact, "phone_number = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if name == "" {
			name = "Cliente"
		}
		contact = models.Contact{PhoneNumber: phone, Name: name}
		if err := s.db.Create(&contact).Error; err != nil {
			return nil, err
		}
		return &contact, nil
	}
	if err != nil {
		return nil, err
	}
	if name != "" && (contact.Name == "" || contact.Name == "Cliente") {
		contact.Name = name
		if err := s.db.Save(&contact).Error; err != nil {
			return nil, err
		}
	}
	return &contact, nil
}

// Upsert overwrites the contact name, creating the record if needed.
// Used by the CSV and manual import paths where the admin-provided name wins.
func (s *ContactStore) Upsert(phone, name string) error {
	var contact models.Contact
	err := s.db.First(&contact, "phone_number = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.Create(&models.Contact{PhoneNumber: phone, Name: name}).Error
	}
	if err != nil {
		return err
	}
	contact.Name = name
	return s.db.Save(&contact).Error
}

func (s *ContactStore) Find(phone string) (*models.Contact, error) {
	var contact models.Contact
	if err := s.db.First(&contact, "phone_number = ?", phone).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (s *ContactStore) Count() (int64, error) {
	var n int64
	err := s.db.Model(&models.Contact{}).Count(&n).Error
	return n, err
}

func (s *ContactStore) All() ([]models.Contact, error) {
	var contacts []models.Contact
	err := s.db.Order("created_at ASC").Find(&contacts).Error
	return contacts, err
}

// ImportFromCSVBase64 ingests a customer export sent as a base64 CSV
// document. Column 1 holds the name and column 4 the phone (the layout the
// booking system exports); the header row is skipped. Returns how many
// contacts were saved or updated.
func (s *ContactStore) ImportFromCSVBase64(content string) (int, error) {
	if idx := strings.Index(content, ","); idx >= 0 && strings.HasPrefix(content, "data:") {
		content = content[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return 0, err
	}

	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return 0, err
	}

	count := 0
	for i, record := range records {
		if i == 0 || len(record) < 5 {
			continue
		}
		name := strings.TrimSpace(record[1])
		rawPhone := strings.TrimSpace(record[4])
		if rawPhone == "" || strings.EqualFold(rawPhone, "N/A") {
			continue
		}
		phone := nonDigits.ReplaceAllString(rawPhone, "")
		if phone == "" {
			continue
		}
		if len(phone) == 10 || len(phone) == 11 {
			phone = "55" + phone
		}
		if err := s.Upsert(phone, name); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
