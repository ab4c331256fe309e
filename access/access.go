// Package access is the one place role and permission rules are decided.
// Handlers, the grid editor and the ledger all ask here instead of checking
// roles themselves.
package access

import (
	"qc-registry/models"

	"golang.org/x/exp/slices"
)

func IsAdmin(user models.Worker) bool {
	return user.Role == models.RoleAdmin
}

// AllowedCategories returns the categories the user may enter data for, in the
// order of categories. Admins get every category.
func AllowedCategories(user models.Worker, categories []models.QCCategory) []models.QCCategory {
	out := make([]models.QCCategory, 0, len(categories))
	for _, c := range categories {
		if IsAdmin(user) || slices.Contains(user.Permissions, c) {
			out = append(out, c)
		}
	}
	return out
}

// CanEnter reports whether the user may open the grid of a category. The guest
// identity may open any grid, read-only.
func CanEnter(user models.Worker, category models.QCCategory) bool {
	return IsAdmin(user) || user.IsGuest() || slices.Contains(user.Permissions, category)
}

// CanLoadHistory reports whether prior records are loaded into the grid.
func CanLoadHistory(user models.Worker) bool {
	return user.Role == models.RoleAdmin || user.Role == models.RoleStaff
}

// CanViewLedger reports whether the dashboard shows the historical ledger.
func CanViewLedger(user models.Worker) bool {
	return CanLoadHistory(user) || user.CanViewHistory
}

// CanModify reports write rights on grid rows: admins, and logged-in non-staff users.
func CanModify(user models.Worker) bool {
	if IsAdmin(user) {
		return true
	}
	return user.Role != models.RoleStaff && !user.IsGuest()
}

// CanDelete reports rights to remove rows and records.
func CanDelete(user models.Worker) bool {
	return IsAdmin(user)
}

// CanAdminister reports access to the admin panel.
func CanAdminister(user models.Worker) bool {
	return IsAdmin(user)
}
