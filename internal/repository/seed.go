package repository

import (
	"errors"
	"fmt"

	"go-warung-pos/internal/model"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Seed creates default privileges, roles and the owner account if missing.
// It is safe to run on every start.
func Seed(db *gorm.DB, ownerEmail, ownerPassword string, log zerolog.Logger) error {
	privilegeRepo := NewPrivilegeRepo(db)
	roleRepo := NewRoleRepo(db)
	userRepo := NewUserRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		return fmt.Errorf("seed privileges: %w", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, err := privilegeRepo.FindAll()
	if err != nil {
		return err
	}

	ownerRole, err := roleRepo.FindByCode(model.RoleOwner)
	if err != nil {
		return err
	}
	if len(ownerRole.Privileges) != len(allPrivileges) {
		if err := db.Model(ownerRole).Association("Privileges").Replace(allPrivileges); err != nil {
			return fmt.Errorf("assign owner privileges: %w", err)
		}
		ownerRole.Privileges = allPrivileges
		log.Info().Msg("OWNER role assigned all privileges")
	}

	cashierRole, err := roleRepo.FindByCode(model.RoleCashier)
	if err != nil {
		return err
	}
	if len(cashierRole.Privileges) == 0 {
		cashierPrivileges, err := privilegeRepo.FindByCodes(model.CashierPrivileges)
		if err != nil {
			return err
		}
		if err := db.Model(cashierRole).Association("Privileges").Replace(cashierPrivileges); err != nil {
			return fmt.Errorf("assign cashier privileges: %w", err)
		}
		log.Info().Msg("CASHIER role assigned limited privileges")
	}

	// 4. Create owner account
	_, err = userRepo.FindByEmail(ownerEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	owner := &model.User{
		Email:      ownerEmail,
		FullName:   "Pemilik Warung",
		RoleID:     &ownerRole.ID,
		IsActive:   true,
		Privileges: allPrivileges,
	}
	owner.CreatedBy = "system"
	owner.UpdatedBy = "system"
	if err := owner.SetPassword(ownerPassword); err != nil {
		return fmt.Errorf("hash owner password: %w", err)
	}
	if err := userRepo.Create(owner); err != nil {
		return fmt.Errorf("create owner: %w", err)
	}
	log.Info().Str("email", ownerEmail).Msg("owner account created")
	return nil
}
