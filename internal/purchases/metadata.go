package purchases

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/jsa498/devflow/pkg/errors"
)

// Checkout session metadata keys. The session-creation side must produce
// exactly these keys; verification consumes them identically. The metadata
// mapping is the only channel that survives the payment provider's redirect
// round-trip.
const (
	MetadataUserID              = "userId"
	MetadataProgramEnrollmentID = "programEnrollmentId"
	MetadataCourseID            = "courseId"
	MetadataCourseSlug          = "courseSlug"
	MetadataIsCartCheckout      = "isCartCheckout"
	MetadataCourseIDs           = "courseIds"
)

// ProgramPurchase completes a pending program enrollment.
type ProgramPurchase struct {
	UserID       uuid.UUID
	EnrollmentID uuid.UUID
}

// CoursePurchase grants one course to one user.
type CoursePurchase struct {
	UserID     uuid.UUID
	CourseID   uuid.UUID
	CourseSlug string
}

// CartPurchase grants a batch of courses bought in one session.
type CartPurchase struct {
	UserID    uuid.UUID
	CourseIDs []uuid.UUID
}

// PurchaseIntent is the tagged decoding of session metadata. Exactly one
// variant is populated.
type PurchaseIntent struct {
	Program *ProgramPurchase
	Course  *CoursePurchase
	Cart    *CartPurchase
}

// Type labels the intent for logs and metrics.
func (i PurchaseIntent) Type() string {
	switch {
	case i.Program != nil:
		return "program"
	case i.Course != nil:
		return "course"
	case i.Cart != nil:
		return "cart"
	default:
		return "unknown"
	}
}

// ParsePurchaseMetadata validates the untyped metadata mapping at the
// boundary and resolves it into exactly one purchase shape. The user ID is
// mandatory for every shape; which discriminator key is present decides the
// variant. Unrecognized shapes are rejected here rather than threaded through
// the verification flow as optional-field checks.
func ParsePurchaseMetadata(metadata map[string]string) (PurchaseIntent, error) {
	rawUserID, ok := metadata[MetadataUserID]
	if !ok || rawUserID == "" {
		return PurchaseIntent{}, pkgerrors.New(pkgerrors.CodeValidation, "required information missing from session metadata")
	}
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return PurchaseIntent{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id in session metadata")
	}

	if raw := metadata[MetadataProgramEnrollmentID]; raw != "" {
		enrollmentID, err := uuid.Parse(raw)
		if err != nil {
			return PurchaseIntent{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid program enrollment id in session metadata")
		}
		return PurchaseIntent{Program: &ProgramPurchase{UserID: userID, EnrollmentID: enrollmentID}}, nil
	}

	if raw := metadata[MetadataCourseID]; raw != "" {
		courseID, err := uuid.Parse(raw)
		if err != nil {
			return PurchaseIntent{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid course id in session metadata")
		}
		return PurchaseIntent{Course: &CoursePurchase{
			UserID:     userID,
			CourseID:   courseID,
			CourseSlug: metadata[MetadataCourseSlug],
		}}, nil
	}

	if metadata[MetadataIsCartCheckout] == "true" {
		courseIDs, err := parseCourseIDs(metadata[MetadataCourseIDs])
		if err != nil {
			return PurchaseIntent{}, err
		}
		return PurchaseIntent{Cart: &CartPurchase{UserID: userID, CourseIDs: courseIDs}}, nil
	}

	return PurchaseIntent{}, pkgerrors.New(pkgerrors.CodeValidation, "unrecognized purchase type")
}

func parseCourseIDs(raw string) ([]uuid.UUID, error) {
	if raw == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart checkout metadata missing course ids")
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed course ids in cart metadata")
	}
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart checkout metadata has no courses")
	}

	courseIDs := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		courseID, err := uuid.Parse(id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid course id %q in cart metadata", id))
		}
		courseIDs = append(courseIDs, courseID)
	}
	return courseIDs, nil
}
