package sanitize

import "fmt"

// Category is a PHI category label. The set is closed: every category maps to
// exactly one sanitizer implementation in New.
type Category string

const (
	CategoryFullName            Category = "full_name"
	CategoryFirstName           Category = "first_name"
	CategoryLastName            Category = "last_name"
	CategoryMiddleName          Category = "middle_name"
	CategoryDateOfBirth         Category = "date_of_birth"
	CategoryAppointmentDate     Category = "appointment_date"
	CategorySSN                 Category = "ssn"
	CategoryAddress             Category = "address"
	CategoryPhoneNumber         Category = "phone_number"
	CategoryEmail               Category = "email"
	CategoryMedicalRecordNumber Category = "medical_record_number"
	CategoryInsuranceID         Category = "insurance_id"
	CategoryDriversLicense      Category = "drivers_license"
	CategoryMedicaidNumber      Category = "medicaid_number"
)

// Categories returns every known category in a stable order
func Categories() []Category {
	return []Category{
		CategoryFullName,
		CategoryFirstName,
		CategoryLastName,
		CategoryMiddleName,
		CategoryDateOfBirth,
		CategoryAppointmentDate,
		CategorySSN,
		CategoryAddress,
		CategoryPhoneNumber,
		CategoryEmail,
		CategoryMedicalRecordNumber,
		CategoryInsuranceID,
		CategoryDriversLicense,
		CategoryMedicaidNumber,
	}
}

// Valid reports whether c names a known category
func (c Category) Valid() bool {
	switch c {
	case CategoryFullName, CategoryFirstName, CategoryLastName, CategoryMiddleName,
		CategoryDateOfBirth, CategoryAppointmentDate, CategorySSN, CategoryAddress,
		CategoryPhoneNumber, CategoryEmail, CategoryMedicalRecordNumber,
		CategoryInsuranceID, CategoryDriversLicense, CategoryMedicaidNumber:
		return true
	}
	return false
}

// New constructs the sanitizer for a category. The switch is total over the
// closed category set; only an unknown label errors.
func New(category Category, opts Options) (Sanitizer, error) {
	opts = opts.withDefaults()

	switch category {
	case CategoryFullName:
		return newFullName(opts), nil
	case CategoryFirstName:
		return newFirstName(opts), nil
	case CategoryLastName:
		return newLastName(opts), nil
	case CategoryMiddleName:
		return newMiddleName(opts), nil
	case CategoryDateOfBirth:
		return newDateOfBirth(opts), nil
	case CategoryAppointmentDate:
		return newAppointmentDate(opts), nil
	case CategorySSN:
		return newSSN(opts), nil
	case CategoryAddress:
		return newAddress(opts), nil
	case CategoryPhoneNumber:
		return newPhoneNumber(opts), nil
	case CategoryEmail:
		return newEmail(opts), nil
	case CategoryMedicalRecordNumber:
		return newMRN(opts), nil
	case CategoryInsuranceID:
		return newInsuranceID(opts), nil
	case CategoryDriversLicense:
		return newDriversLicense(opts), nil
	case CategoryMedicaidNumber:
		return newMedicaidNumber(opts), nil
	default:
		return nil, fmt.Errorf("unknown PHI category: %s", category)
	}
}
