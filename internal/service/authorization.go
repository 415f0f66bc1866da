package service

import "github.com/MKhiriev/go-library-keeper/models"

// RequireAuthenticated fails with ErrUnauthenticated for an anonymous
// identity.
func RequireAuthenticated(identity *models.Identity) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	return nil
}

// RequireLibrarian fails with ErrUnauthenticated for an anonymous identity
// and with ErrForbidden for a member.
func RequireLibrarian(identity *models.Identity) error {
	if err := RequireAuthenticated(identity); err != nil {
		return err
	}
	if !identity.IsLibrarian() {
		return ErrForbidden
	}
	return nil
}
