package booking

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/class-session-booking/internal/model"
	"github.com/iliyamo/class-session-booking/internal/queue"
	"github.com/iliyamo/class-session-booking/internal/repository"
	"github.com/iliyamo/class-session-booking/internal/utils"
)

// initialParentPassword is the fixed password given to every parent
// account created through a booking. Parents are asked to change it on
// first portal login; the account is created active under the Parents
// role either way.
const initialParentPassword = "Welcome2Class!"

// refCodeAttempts bounds the retry loop for booking reference
// collisions before the request is failed as a storage error.
const refCodeAttempts = 5

// StudentInput is one child block of a booking payload.
type StudentInput struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// ParentInput is one parent contact block of a booking payload.
type ParentInput struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Phone     string `json:"phone"`
}

// EmergencyInput is the optional emergency contact block. It is only
// persisted when both first name and phone are present.
type EmergencyInput struct {
	FirstName    string `json:"first_name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// CreateBookingInput is the validated payload for booking creation,
// shared by all three origins.
type CreateBookingInput struct {
	ClassSessionID uint64          `json:"class_session_id" validate:"required"`
	Students       []StudentInput  `json:"students" validate:"required,min=1,dive"`
	Parents        []ParentInput   `json:"parents" validate:"required,min=1,dive"`
	Emergency      *EmergencyInput `json:"emergency_contact"`
}

// RequestContext carries the already-authenticated caller identity and
// the channel the request arrived through. Website requests have no
// caller and leave CallerID zero.
type RequestContext struct {
	Origin   model.Origin
	CallerID uint64
}

// Result is the aggregate returned after a committed booking. The
// first student's identity is included for downstream notification
// use.
type Result struct {
	BookingID        uint64        `json:"booking_id"`
	Reference        string        `json:"booking_reference"`
	FirstStudentID   uint64        `json:"first_student_id"`
	FirstStudentName string        `json:"first_student_name"`
	ParentAccountID  uint64        `json:"parent_account_id"`
	Booking          model.Booking `json:"booking"`
}

// PublishFunc is the post-commit event hook. Failures are logged and
// never affect the booking outcome.
type PublishFunc func(ctx context.Context, ev queue.BookingCreatedEvent) error

// Service coordinates booking creation, visibility-scoped reads and
// agent assignment over the repositories. All multi-row writes run in
// a single transaction opened here; repositories never commit.
type Service struct {
	db             *sql.DB
	sessions       *repository.SessionRepo
	bookings       *repository.BookingRepo
	parentAccounts *repository.ParentAccountRepo
	staff          *repository.StaffRepo
	validate       *validator.Validate
	bcryptCost     int
	publish        PublishFunc
}

// NewService wires the coordinator. publish may be nil to disable the
// post-commit event (e.g. in tests).
func NewService(db *sql.DB, sessions *repository.SessionRepo, bookings *repository.BookingRepo,
	parentAccounts *repository.ParentAccountRepo, staff *repository.StaffRepo,
	bcryptCost int, publish PublishFunc) *Service {
	if db == nil || sessions == nil || bookings == nil || parentAccounts == nil || staff == nil {
		panic("nil dependency passed to booking.NewService")
	}
	return &Service{
		db:             db,
		sessions:       sessions,
		bookings:       bookings,
		parentAccounts: parentAccounts,
		staff:          staff,
		validate:       validator.New(),
		bcryptCost:     bcryptCost,
		publish:        publish,
	}
}

// CreateBooking runs the whole booking transaction: resolve the parent
// identity, insert the booking with its students, parents and optional
// emergency contact, and reserve session capacity, all or nothing.
// Validation and duplicate-identity checks happen before the
// transaction opens, so a rejected request leaves no trace in storage.
func (s *Service) CreateBooking(ctx context.Context, in *CreateBookingInput, rc RequestContext) (*Result, error) {
	if err := validateCreate(s.validate, in); err != nil {
		return nil, err
	}
	if err := s.checkDuplicateIdentity(ctx, in, rc); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	session, err := s.sessions.GetByIDTx(ctx, tx, in.ClassSessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, &ValidationError{Field: "class_session_id", Reason: "unknown class session"}
		}
		return nil, err
	}

	parentAccountID, err := s.resolveParentAccount(ctx, tx, in, rc)
	if err != nil {
		return nil, err
	}

	rec := &model.Booking{
		ClassSessionID:  in.ClassSessionID,
		ParentAccountID: &parentAccountID,
		Status:          model.BookingStatusActive,
		StudentCount:    uint32(len(in.Students)),
	}
	switch rc.Origin {
	case model.OriginAdmin:
		// Staff-entered: the caller owns the booking, no public source.
		caller := rc.CallerID
		rec.BookedBy = &caller
	case model.OriginParentPortal:
		src := model.SourceParentPortal
		rec.Source = &src
	default:
		src := model.SourceWebsite
		rec.Source = &src
	}

	if err := s.insertWithReference(ctx, tx, rec); err != nil {
		return nil, err
	}

	var firstStudent model.Student
	for i, st := range in.Students {
		row := model.Student{
			BookingID:       rec.ID,
			FirstName:       st.FirstName,
			LastName:        st.LastName,
			SessionName:     session.Name,
			SessionStartsAt: session.StartsAt,
		}
		if err := s.bookings.CreateStudentTx(ctx, tx, &row); err != nil {
			return nil, err
		}
		if i == 0 {
			firstStudent = row
		}
	}

	parents := make([]model.Parent, 0, len(in.Parents))
	for _, p := range in.Parents {
		parents = append(parents, model.Parent{
			StudentID: firstStudent.ID,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Email:     repository.NormalizeEmail(p.Email),
			Phone:     p.Phone,
		})
	}
	if err := s.bookings.CreateParentsBulkTx(ctx, tx, parents); err != nil {
		return nil, err
	}

	if e := in.Emergency; e != nil && e.FirstName != "" && e.Phone != "" {
		ec := model.EmergencyContact{
			StudentID:    firstStudent.ID,
			FirstName:    e.FirstName,
			Phone:        e.Phone,
			Relationship: e.Relationship,
		}
		if err := s.bookings.CreateEmergencyContactTx(ctx, tx, &ec); err != nil {
			return nil, err
		}
	}

	remaining, err := s.sessions.ReserveTx(ctx, tx, in.ClassSessionID, rec.StudentCount)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientCapacity) {
			return nil, &CapacityError{
				SessionID: in.ClassSessionID,
				Requested: rec.StudentCount,
				Remaining: remaining,
			}
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	res := &Result{
		BookingID:        rec.ID,
		Reference:        rec.Reference,
		FirstStudentID:   firstStudent.ID,
		FirstStudentName: strings.TrimSpace(firstStudent.FirstName + " " + firstStudent.LastName),
		ParentAccountID:  parentAccountID,
		Booking:          *rec,
	}

	// Post-commit side effects are best effort: a failed publish is
	// logged, never surfaced as a booking failure.
	if s.publish != nil {
		ev := queue.BookingCreatedEvent{
			BookingID:        rec.ID,
			Reference:        rec.Reference,
			ClassSessionID:   session.ID,
			SessionName:      session.Name,
			VenueName:        session.VenueName,
			StartsAt:         session.StartsAt.UTC().Format(time.RFC3339),
			Origin:           string(rc.Origin),
			ParentAccountID:  parentAccountID,
			StudentCount:     rec.StudentCount,
			FirstStudentName: res.FirstStudentName,
			CreatedAt:        time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.publish(ctx, ev); err != nil {
			log.Printf("booking: publish booking.created for %s failed: %v", rec.Reference, err)
		}
	}
	return res, nil
}

// insertWithReference generates reference codes until the insert
// succeeds or the retry budget is exhausted. Collisions are rare at
// 8 characters but the unique index makes them explicit.
func (s *Service) insertWithReference(ctx context.Context, tx *sql.Tx, rec *model.Booking) error {
	for attempt := 0; attempt < refCodeAttempts; attempt++ {
		ref, err := utils.NewBookingReference()
		if err != nil {
			return err
		}
		rec.Reference = ref
		err = s.bookings.CreateTx(ctx, tx, rec)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrReferenceExists) {
			return err
		}
	}
	return repository.ErrReferenceExists
}

// checkDuplicateIdentity rejects a request before the transaction when
// the first parent's email belongs to a staff account, or (for website
// signups) to a deactivated parent account. Active parent accounts are
// fine: website bookings reuse them, staff-entered bookings duplicate
// them by policy.
func (s *Service) checkDuplicateIdentity(ctx context.Context, in *CreateBookingInput, rc RequestContext) error {
	if rc.Origin == model.OriginParentPortal {
		return nil
	}
	email := repository.NormalizeEmail(in.Parents[0].Email)
	if _, err := s.staff.GetByEmail(ctx, email); err == nil {
		return ErrDuplicateIdentity
	} else if !errors.Is(err, repository.ErrStaffNotFound) {
		return err
	}
	if rc.Origin == model.OriginWebsite {
		acc, err := s.parentAccounts.GetByEmail(ctx, email)
		if err == nil && !acc.IsActive {
			return ErrDuplicateIdentity
		}
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
	}
	return nil
}

// resolveParentAccount applies the origin-dependent identity policy:
//
//   parent-portal – the caller's own account id, verbatim.
//   admin         – always a fresh account, even for a known email.
//   website       – find-or-create by normalized email.
//
// The admin always-create behaviour is deliberate (staff-entered
// duplicates are tolerated) and must not be collapsed into
// find-or-create.
func (s *Service) resolveParentAccount(ctx context.Context, tx *sql.Tx, in *CreateBookingInput, rc RequestContext) (uint64, error) {
	if rc.Origin == model.OriginParentPortal {
		return rc.CallerID, nil
	}
	first := in.Parents[0]
	hash, err := utils.HashPassword(initialParentPassword, s.bcryptCost)
	if err != nil {
		return 0, err
	}
	fullName := strings.TrimSpace(first.FirstName + " " + first.LastName)
	if rc.Origin == model.OriginAdmin {
		return s.parentAccounts.CreateTx(ctx, tx, first.Email, hash, fullName)
	}
	return s.parentAccounts.FindOrCreateTx(ctx, tx, first.Email, hash, fullName)
}
