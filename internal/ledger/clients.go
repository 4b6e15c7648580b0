package ledger

import (
	"errors"
	"fmt"

	"loantrack/internal/models"

	"gorm.io/gorm"
)

// CreateClient registers a new client. The national ID is the natural key;
// a duplicate is a conflict.
func (s *Service) CreateClient(client *models.Client) error {
	var count int64
	if err := s.db.Model(&models.Client{}).
		Where("national_id = ?", client.NationalID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check national id: %w", err)
	}
	if count > 0 {
		return &ConflictError{Message: fmt.Sprintf("a client with national id %s already exists", client.NationalID)}
	}

	if client.Status == "" {
		client.Status = "Active"
	}

	if err := s.db.Create(client).Error; err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

// GetClient returns a client by id.
func (s *Service) GetClient(id uint) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "client", ID: id}
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &client, nil
}

// ListClients returns all clients.
func (s *Service) ListClients() ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// UpdateClient replaces all editable fields of an existing client. Moving
// the national ID onto one held by a different client is a conflict.
func (s *Service) UpdateClient(id uint, in *models.Client) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "client", ID: id}
		}
		return nil, fmt.Errorf("get client: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.Client{}).
		Where("national_id = ? AND id <> ?", in.NationalID, id).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check national id: %w", err)
	}
	if count > 0 {
		return nil, &ConflictError{Message: fmt.Sprintf("national id %s belongs to another client", in.NationalID)}
	}

	client.Name = in.Name
	client.NationalID = in.NationalID
	client.Phone = in.Phone
	client.Email = in.Email
	client.Address = in.Address
	client.Amount = in.Amount
	client.Date = in.Date
	if in.Status != "" {
		client.Status = in.Status
	}

	if err := s.db.Save(&client).Error; err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	return &client, nil
}

// DeleteClient removes a client together with all of its loans and
// payments, all or nothing.
func (s *Service) DeleteClient(id uint) error {
	unlock := s.lockClient(id)
	defer unlock()

	var loanIDs []uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "client", ID: id}
			}
			return fmt.Errorf("get client: %w", err)
		}

		if err := tx.Model(&models.Loan{}).Where("client_id = ?", id).Pluck("id", &loanIDs).Error; err != nil {
			return fmt.Errorf("list client loans: %w", err)
		}

		if err := tx.Where("client_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return fmt.Errorf("delete client payments: %w", err)
		}
		if err := tx.Where("client_id = ?", id).Delete(&models.Loan{}).Error; err != nil {
			return fmt.Errorf("delete client loans: %w", err)
		}
		if err := tx.Delete(&client).Error; err != nil {
			return fmt.Errorf("delete client: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, loanID := range loanIDs {
		s.forget(s.loanLocks, loanID)
	}
	s.forget(s.clientLocks, id)
	return nil
}
