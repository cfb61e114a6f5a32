package application

import (
	"github.com/his-platform/inventory-service/internal/domain"
)

// ToItemDTO converts a domain Item to its response representation
func ToItemDTO(item *domain.Item) *ItemDTO {
	dto := &ItemDTO{
		ID:           item.ID.Hex(),
		SKU:          item.SKU,
		Name:         item.Name,
		Description:  item.Description,
		CategoryID:   item.CategoryID,
		DepartmentID: item.DepartmentID,
		Unit:         item.Unit,
		Quantity:     item.Quantity,
		MinimumLevel: item.MinimumLevel,
		ReorderLevel: item.ReorderLevel,
		Cost:         item.Cost,
		TotalValue:   item.TotalValue(),
		Location:     item.Location,
		ExpiryDate:   item.ExpiryDate,
		Status:       string(item.Status),
		Version:      item.Version,
		LastUpdated:  item.LastUpdated,
		UpdatedBy:    item.UpdatedBy,
		CreatedAt:    item.CreatedAt,
	}

	if item.Supplier != (domain.Supplier{}) {
		dto.Supplier = &SupplierDTO{
			Name:          item.Supplier.Name,
			ContactPerson: item.Supplier.ContactPerson,
			Email:         item.Supplier.Email,
			Phone:         item.Supplier.Phone,
		}
	}

	return dto
}

// ToItemDTOs converts a slice of domain Items
func ToItemDTOs(items []*domain.Item) []*ItemDTO {
	dtos := make([]*ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, ToItemDTO(item))
	}
	return dtos
}

// ToTransactionDTO converts a domain Transaction to its response representation
func ToTransactionDTO(txn *domain.Transaction) *TransactionDTO {
	return &TransactionDTO{
		ID:               txn.ID.Hex(),
		ItemID:           txn.ItemID.Hex(),
		SKU:              txn.SKU,
		Type:             string(txn.Type),
		Quantity:         txn.Quantity,
		PreviousQuantity: txn.PreviousQuantity,
		NewQuantity:      txn.NewQuantity,
		RequestedBy:      txn.RequestedBy,
		ApprovedBy:       txn.ApprovedBy,
		DepartmentID:     txn.DepartmentID,
		Notes:            txn.Notes,
		CreatedAt:        txn.CreatedAt,
	}
}

// ToTransactionDTOs converts a slice of domain Transactions
func ToTransactionDTOs(txns []*domain.Transaction) []*TransactionDTO {
	dtos := make([]*TransactionDTO, 0, len(txns))
	for _, txn := range txns {
		dtos = append(dtos, ToTransactionDTO(txn))
	}
	return dtos
}

// ToCategoryDTO converts a domain Category
func ToCategoryDTO(category *domain.Category) *CategoryDTO {
	return &CategoryDTO{
		ID:          category.ID.Hex(),
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

// ToCategoryDTOs converts a slice of domain Categories
func ToCategoryDTOs(categories []*domain.Category) []*CategoryDTO {
	dtos := make([]*CategoryDTO, 0, len(categories))
	for _, category := range categories {
		dtos = append(dtos, ToCategoryDTO(category))
	}
	return dtos
}

// ToDepartmentDTO converts a domain Department
func ToDepartmentDTO(department *domain.Department) *DepartmentDTO {
	return &DepartmentDTO{
		ID:          department.ID.Hex(),
		Name:        department.Name,
		Description: department.Description,
		Location:    department.Location,
		HeadOfDept:  department.HeadOfDept,
		CreatedAt:   department.CreatedAt,
		UpdatedAt:   department.UpdatedAt,
	}
}

// ToDepartmentDTOs converts a slice of domain Departments
func ToDepartmentDTOs(departments []*domain.Department) []*DepartmentDTO {
	dtos := make([]*DepartmentDTO, 0, len(departments))
	for _, department := range departments {
		dtos = append(dtos, ToDepartmentDTO(department))
	}
	return dtos
}

// ToUserDTO converts a domain User, omitting credential material
func ToUserDTO(user *domain.User) *UserDTO {
	return &UserDTO{
		ID:           user.ID.Hex(),
		Username:     user.Username,
		Email:        user.Email,
		FullName:     user.FullName,
		Role:         string(user.Role),
		DepartmentID: user.DepartmentID,
		Active:       user.Active,
		CreatedAt:    user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of domain Users
func ToUserDTOs(users []*domain.User) []*UserDTO {
	dtos := make([]*UserDTO, 0, len(users))
	for _, user := range users {
		dtos = append(dtos, ToUserDTO(user))
	}
	return dtos
}
