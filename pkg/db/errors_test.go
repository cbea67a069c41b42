package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolationPgx(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "course_enrollments_user_course_key"}

	if !IsUniqueViolation(err, "") {
		t.Fatalf("expected unique violation")
	}
	if !IsUniqueViolation(err, "course_enrollments_user_course_key") {
		t.Fatalf("expected matching constraint")
	}
	if IsUniqueViolation(err, "other_constraint") {
		t.Fatalf("constraint mismatch should not match")
	}
}

func TestIsUniqueViolationWrapped(t *testing.T) {
	inner := &pgconn.PgError{Code: "23505"}
	err := fmt.Errorf("insert enrollment: %w", inner)
	if !IsUniqueViolation(err, "") {
		t.Fatalf("expected wrapped violation to match")
	}
}

func TestIsUniqueViolationSQLiteMessage(t *testing.T) {
	err := errors.New("UNIQUE constraint failed: course_enrollments.user_id, course_enrollments.course_id")
	if !IsUniqueViolation(err, "") {
		t.Fatalf("expected sqlite message to match")
	}
}

func TestIsUniqueViolationOtherErrors(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Fatalf("nil should not match")
	}
	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatalf("unrelated error should not match")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatalf("foreign key violation should not match")
	}
}
