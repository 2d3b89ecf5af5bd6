package services

import (
	"gorm.io/gorm"

	"event-marketplace-server/models"
)

// MatchProviders finds the approved providers who should hear about a new
// bid request. Whole-team requests target the company roles; everything else
// goes to freelancers. Event companies are additionally filtered by their
// declared categories unless the request spells out the services it needs.
func MatchProviders(db *gorm.DB, request *models.BidRequest) ([]models.User, error) {
	roles := []models.UserRole{models.RoleFreelancer}
	if request.NeedWholeTeam {
		roles = models.CompanyRoles
	}

	var candidates []models.User
	if err := db.Where("role IN ? AND approved = ? AND is_active = ?", roles, true, true).
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	matched := make([]models.User, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Role == models.RoleEventCompany &&
			len(request.ServicesNeeded) == 0 &&
			!candidate.HasCategory(request.EventType) {
			continue
		}
		matched = append(matched, candidate)
	}
	return matched, nil
}
