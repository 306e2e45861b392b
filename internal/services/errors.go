// Package services implements the business logic for food logging, catalog
// management, deferred requests, weight tracking, reporting and undo.
// This file centralizes the service-level error values so they can be
// consistently returned by service methods and checked by callers with
// errors.Is.
//
// Translation into user-facing localized messages is performed at the bot
// layer; the three resolution failures each select a distinct guidance
// template there.
package services

import "errors"

// Resolution errors. Exactly one of these is returned when a food entry
// cannot be converted into a log row.
var (
	// ErrFoodNotFound indicates no food carries the given name in the
	// requested locale.
	ErrFoodNotFound = errors.New("food not found")

	// ErrUnitNotFound indicates the unit name does not exist at all in the
	// requested locale.
	ErrUnitNotFound = errors.New("unit not found")

	// ErrUnitNotDefined indicates the unit exists but has no gram
	// equivalence defined for this particular food.
	ErrUnitNotDefined = errors.New("unit not defined for food")
)

// Catalog and command errors.
var (
	// ErrDuplicateName is returned when a food or unit name already exists
	// in the target locale. Nothing is persisted in that case.
	ErrDuplicateName = errors.New("name already exists")

	// ErrNothingToCancel is returned by the undo operation when the user
	// has no recorded command left to revert.
	ErrNothingToCancel = errors.New("nothing to cancel")

	// ErrInvalidCommand is returned when a slash command's arguments do not
	// parse or fail validation.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrUnauthorized is returned when a non-owner invokes an
	// administrator command.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRequestNotFound indicates the --request id does not refer to a
	// stored food request.
	ErrRequestNotFound = errors.New("request not found")
)
