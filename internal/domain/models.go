// Package domain defines the persistence models for the nutrition tracker:
// the food/unit conversion catalog, consumption and weight logs, deferred
// food requests, and the delivery outbox. These types are mapped with GORM
// and form the core data layer of the application.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Locale values are BCP 47 primary language subtags ("en", "ru"). Name
// lookups are always scoped by locale; see FoodName and UnitName.

// User is an account keyed by the external chat-platform identifier.
// Users are created lazily on first contact together with a UserProfile.
type User struct {
	ID         uint   `json:"id"          gorm:"primaryKey"`
	TelegramID int64  `json:"telegram_id" gorm:"uniqueIndex;not null"`
	Name       string `json:"name"        gorm:"type:varchar(255)"`
	Locale     string `json:"locale"      gorm:"type:varchar(8);not null;default:en"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Profile *UserProfile `json:"profile,omitempty" gorm:"foreignKey:UserID"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// UserProfile carries the per-user daily nutrient targets used when
// computing the "remaining today" figures and the daily digest.
type UserProfile struct {
	ID            uint    `json:"id"             gorm:"primaryKey"`
	UserID        uint    `json:"user_id"        gorm:"uniqueIndex;not null"`
	DailyCalories float64 `json:"daily_calories" gorm:"not null;default:0"`
	DailyFat      float64 `json:"daily_fat"      gorm:"not null;default:0"`
	DailyCarbs    float64 `json:"daily_carbs"    gorm:"not null;default:0"`
	DailyProtein  float64 `json:"daily_protein"  gorm:"not null;default:0"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:CASCADE"`
}

// TableName returns the database table name for UserProfile.
func (UserProfile) TableName() string { return "user_profiles" }

// Food is a nutrient density record. Calories, fat, carbs and protein are
// expressed per ONE GRAM; every other unit converts through the gram via
// a FoodUnit mapping. A food has no name of its own: display names live in
// FoodName, one per locale.
type Food struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	// Per-gram values. Callers feeding "per 100 g" label data must divide
	// by 100 before persisting.
	Calories float64 `json:"calories" gorm:"not null;default:0"`
	Fat      float64 `json:"fat"      gorm:"not null;default:0"`
	Carbs    float64 `json:"carbs"    gorm:"not null;default:0"`
	Protein  float64 `json:"protein"  gorm:"not null;default:0"`
}

// TableName returns the database table name for Food.
func (Food) TableName() string { return "foods" }

// FoodName is a localized display name for a Food. The (name, locale) pair
// is unique across the whole table: within one locale two different foods
// can never share a name. This is a single-tenant, administrator-curated
// catalog, so uniqueness is global rather than per user.
type FoodName struct {
	ID     uint   `json:"id"      gorm:"primaryKey"`
	FoodID uint   `json:"food_id" gorm:"not null;index"`
	Name   string `json:"name"    gorm:"type:varchar(255);not null;uniqueIndex:ux_food_name_locale,priority:1"`
	Locale string `json:"locale"  gorm:"type:varchar(8);not null;uniqueIndex:ux_food_name_locale,priority:2"`

	Food Food `json:"-" gorm:"foreignKey:FoodID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:CASCADE"`
}

// TableName returns the database table name for FoodName.
func (FoodName) TableName() string { return "food_names" }

// Unit is an opaque measure identity (gram, piece, bowl, ...). It exists
// only to be joined against localized names and per-food gram mappings.
type Unit struct {
	ID uint `json:"id" gorm:"primaryKey"`
}

// TableName returns the database table name for Unit.
func (Unit) TableName() string { return "units" }

// UnitName is a localized label for a Unit, with the same global
// (name, locale) uniqueness rule as FoodName.
type UnitName struct {
	ID     uint   `json:"id"      gorm:"primaryKey"`
	UnitID uint   `json:"unit_id" gorm:"not null;index"`
	Name   string `json:"name"    gorm:"type:varchar(255);not null;uniqueIndex:ux_unit_name_locale,priority:1"`
	Locale string `json:"locale"  gorm:"type:varchar(8);not null;uniqueIndex:ux_unit_name_locale,priority:2"`

	Unit Unit `json:"-" gorm:"foreignKey:UnitID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:CASCADE"`
}

// TableName returns the database table name for UnitName.
func (UnitName) TableName() string { return "unit_names" }

// FoodUnit is the gram-equivalence mapping: one unit of Unit for Food equals
// Grams grams. At most one row exists per (food, unit), and at most one row
// per food carries IsDefault. Every food gets an implicit gram mapping
// (grams=1) at creation time, so a default always exists.
type FoodUnit struct {
	ID        uint    `json:"id"         gorm:"primaryKey"`
	FoodID    uint    `json:"food_id"    gorm:"not null;uniqueIndex:ux_food_unit,priority:1"`
	UnitID    uint    `json:"unit_id"    gorm:"not null;uniqueIndex:ux_food_unit,priority:2"`
	Grams     float64 `json:"grams"      gorm:"not null"`
	IsDefault bool    `json:"is_default" gorm:"not null;default:false"`

	Food Food `json:"-" gorm:"foreignKey:FoodID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:CASCADE"`
	Unit Unit `json:"-" gorm:"foreignKey:UnitID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:CASCADE"`
}

// TableName returns the database table name for FoodUnit.
func (FoodUnit) TableName() string { return "food_units" }

// FoodLog is one persisted consumption event. Nutrient totals are computed
// at logging time (per-gram value × qty × grams-per-unit) and stored at full
// precision; rounding happens only at the formatting boundary. Date is the
// calendar day the entry counts against, which is distinct from CreatedAt.
type FoodLog struct {
	ID        uint `json:"id"      gorm:"primaryKey"`
	UserID    uint `json:"user_id" gorm:"not null;index:idx_food_logs_user_date,priority:1"`
	FoodID    uint `json:"food_id" gorm:"not null"`
	UnitID    uint `json:"unit_id" gorm:"not null"`
	CreatedAt time.Time
	Date      datatypes.Date `json:"date"     gorm:"not null;index:idx_food_logs_user_date,priority:2"`
	Qty       float64        `json:"qty"      gorm:"not null"`
	Calories  float64        `json:"calories" gorm:"not null"`
	Fat       float64        `json:"fat"      gorm:"not null"`
	Carbs     float64        `json:"carbs"    gorm:"not null"`
	Protein   float64        `json:"protein"  gorm:"not null"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:CASCADE"`
	Food Food `json:"-" gorm:"foreignKey:FoodID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:CASCADE"`
	Unit Unit `json:"-" gorm:"foreignKey:UnitID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:CASCADE"`
}

// TableName returns the database table name for FoodLog.
func (FoodLog) TableName() string { return "food_logs" }

// FoodRequest captures an utterance that failed resolution, verbatim, so it
// can be replayed once the administrator supplies the missing food or unit.
// Rows are not deleted or marked after a successful replay; completion is
// implicit.
type FoodRequest struct {
	ID        uint `json:"id"      gorm:"primaryKey"`
	UserID    uint `json:"user_id" gorm:"not null;index"`
	CreatedAt time.Time
	Request   string `json:"request" gorm:"type:varchar(255);not null"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:CASCADE"`
}

// TableName returns the database table name for FoodRequest.
func (FoodRequest) TableName() string { return "food_requests" }

// WeightLog is one body-weight measurement.
type WeightLog struct {
	ID        uint `json:"id"      gorm:"primaryKey"`
	UserID    uint `json:"user_id" gorm:"not null;index"`
	CreatedAt time.Time
	Weight    float64 `json:"weight" gorm:"not null"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:CASCADE"`
}

// TableName returns the database table name for WeightLog.
func (WeightLog) TableName() string { return "weight_logs" }

// Command type tags recorded in CommandLog. Only commands that can be
// undone are logged.
const (
	CommandFoodEntry   = "food_entry"
	CommandWeightEntry = "weight_entry"
)

// CommandLog records the most recent mutating command per user so that
// "cancel" can undo it. The undo stack is effectively depth 1: only the row
// with the highest id for a user is ever acted upon.
type CommandLog struct {
	ID        uint `json:"id"      gorm:"primaryKey"`
	UserID    uint `json:"user_id" gorm:"not null;index:idx_command_logs_user"`
	CreatedAt time.Time
	// CommandType is one of CommandFoodEntry or CommandWeightEntry and
	// selects which log table the undo targets.
	CommandType string `json:"command_type" gorm:"type:varchar(32);not null"`
	Command     string `json:"command"      gorm:"type:varchar(255);not null"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:CASCADE"`
}

// TableName returns the database table name for CommandLog.
func (CommandLog) TableName() string { return "command_logs" }

// PendingMessage is a transactional-outbox row: a rendered message waiting
// for delivery to a user. Job runners claim rows by stamping LockedUntil
// inside a transaction; a row is re-claimable only after the stamp passes,
// and it is deleted once actually sent. ExpiresAt bounds how stale a queued
// message may get before it is dropped undelivered.
type PendingMessage struct {
	ID          uint `json:"id"      gorm:"primaryKey"`
	UserID      uint `json:"user_id" gorm:"not null;index"`
	CreatedAt   time.Time
	SendAt      time.Time `json:"send_at"      gorm:"not null;index"`
	ExpiresAt   time.Time `json:"expires_at"   gorm:"not null;index"`
	LockedUntil time.Time `json:"locked_until" gorm:"not null"`
	Message     string    `json:"message"      gorm:"type:varchar(1024);not null"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:CASCADE"`
}

// TableName returns the database table name for PendingMessage.
func (PendingMessage) TableName() string { return "pending_messages" }

// DigestMark tracks, per user, the last day a daily digest was produced.
// The digest scanner selects rows with LastDigestDate before today and
// advances the mark as its claim step.
type DigestMark struct {
	ID             uint           `json:"id"               gorm:"primaryKey"`
	UserID         uint           `json:"user_id"          gorm:"uniqueIndex;not null"`
	LastDigestDate datatypes.Date `json:"last_digest_date" gorm:"not null;index"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:RESTRICT,OnDelete:CASCADE"`
}

// TableName returns the database table name for DigestMark.
func (DigestMark) TableName() string { return "digest_marks" }

// Today returns the current UTC calendar date. All date bucketing is done
// in UTC, matching CreatedAt timestamps.
func Today() datatypes.Date {
	return DateOf(time.Now().UTC())
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
