package services

import (
	"testing"

	"github.com/Alexandr290700/online-tutor/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("setupDB() failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("setupDB() failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Account{},
		&models.Specialist{},
		&models.Student{},
		&models.ServiceCard{},
		&models.Enrollment{},
		&models.Review{},
	)
	if err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	return db
}

func seedSpecialist(t *testing.T, db *gorm.DB) models.Specialist {
	account := models.Account{
		FirstName: "Aida",
		LastName:  "Asanova",
		Email:     uuid.New().String() + "@example.com",
		Password:  "irrelevant",
		Role:      models.RoleTutor,
		IsActive:  true,
	}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("seedSpecialist() failed: %v", err)
	}

	specialist := models.Specialist{
		AccountID:         account.ID,
		FirstName:         "Aida",
		LastName:          "Asanova",
		Age:               30,
		Phone:             "+996 555 123 456",
		Email:             account.Email,
		Services:          "Math tutoring",
		Education:         "KNU",
		ConsultationPrice: 500,
	}
	if err := db.Create(&specialist).Error; err != nil {
		t.Fatalf("seedSpecialist() failed: %v", err)
	}
	return specialist
}

func seedCard(t *testing.T, db *gorm.DB, specialist models.Specialist) models.ServiceCard {
	card := models.ServiceCard{
		Variant:      models.VariantIndividual,
		Name:         "Algebra basics",
		Description:  "Intro course",
		SpecialistID: specialist.ID,
		Price:        1000,
	}
	if err := db.Create(&card).Error; err != nil {
		t.Fatalf("seedCard() failed: %v", err)
	}
	return card
}

func seedStudent(t *testing.T, db *gorm.DB) models.Student {
	account := models.Account{
		FirstName: "Bakyt",
		LastName:  "Toktogulov",
		Email:     uuid.New().String() + "@example.com",
		Password:  "irrelevant",
		Role:      models.RoleStudent,
		IsActive:  true,
	}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("seedStudent() failed: %v", err)
	}

	student := models.Student{
		AccountID: account.ID,
		FirstName: "Bakyt",
		LastName:  "Toktogulov",
		Phone:     "+996 700 111 222",
		Email:     account.Email,
	}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("seedStudent() failed: %v", err)
	}
	return student
}

func seedReview(t *testing.T, db *gorm.DB, card models.ServiceCard, student models.Student, rating float64) models.Review {
	review := models.Review{
		ServiceCardID: card.ID,
		StudentID:     student.ID,
		Rating:        rating,
	}
	if err := db.Create(&review).Error; err != nil {
		t.Fatalf("seedReview() failed: %v", err)
	}
	return review
}

func specialistRating(t *testing.T, db *gorm.DB, id uuid.UUID) float64 {
	var specialist models.Specialist
	if err := db.First(&specialist, "id = ?", id).Error; err != nil {
		t.Fatalf("specialistRating() failed: %v", err)
	}
	return specialist.Rating
}

func TestRecalculateSpecialistRatingMean(t *testing.T) {
	db := setupDB(t)
	specialist := seedSpecialist(t, db)
	card := seedCard(t, db, specialist)
	student := seedStudent(t, db)

	cases := []struct {
		name    string
		ratings []float64
		want    float64
	}{
		{"single review", []float64{4}, 4},
		{"two reviews", []float64{3, 5}, 4},
		{"uneven mean", []float64{2, 3, 5}, 10.0 / 3.0},
		{"all fives", []float64{5, 5, 5}, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := db.Where("service_card_id = ?", card.ID).Delete(&models.Review{}).Error; err != nil {
				t.Fatalf("cleanup failed: %v", err)
			}
			for _, r := range tc.ratings {
				seedReview(t, db, card, student, r)
			}

			err := RecalculateSpecialistRating(db, specialist.ID)
			assert.NoError(t, err)
			assert.InDelta(t, tc.want, specialistRating(t, db, specialist.ID), 1e-9)
		})
	}
}

func TestRecalculateSpecialistRatingClampsToCeiling(t *testing.T) {
	db := setupDB(t)
	specialist := seedSpecialist(t, db)
	card := seedCard(t, db, specialist)
	student := seedStudent(t, db)

	// Out-of-range values written directly to storage must still clamp.
	seedReview(t, db, card, student, 9)
	seedReview(t, db, card, student, 8)

	err := RecalculateSpecialistRating(db, specialist.ID)
	assert.NoError(t, err)
	assert.Equal(t, MaxRating, specialistRating(t, db, specialist.ID))
}

func TestRecalculateSpecialistRatingEmptySetResetsToZero(t *testing.T) {
	db := setupDB(t)
	specialist := seedSpecialist(t, db)
	card := seedCard(t, db, specialist)
	student := seedStudent(t, db)

	review := seedReview(t, db, card, student, 5)
	assert.NoError(t, RecalculateSpecialistRating(db, specialist.ID))
	assert.Equal(t, 5.0, specialistRating(t, db, specialist.ID))

	assert.NoError(t, db.Delete(&review).Error)
	assert.NoError(t, RecalculateSpecialistRating(db, specialist.ID))
	assert.Equal(t, 0.0, specialistRating(t, db, specialist.ID))
}

func TestRecalculateSpecialistRatingIncludesLatestValue(t *testing.T) {
	db := setupDB(t)
	specialist := seedSpecialist(t, db)
	card := seedCard(t, db, specialist)
	student := seedStudent(t, db)

	for i := 0; i < 6; i++ {
		seedReview(t, db, card, student, 5)
	}
	seedReview(t, db, card, student, 0)

	// Mean over all seven reviews: the newly added value counts.
	err := RecalculateSpecialistRating(db, specialist.ID)
	assert.NoError(t, err)
	assert.InDelta(t, 30.0/7.0, specialistRating(t, db, specialist.ID), 1e-9)
}

func TestRecalculateSpecialistRatingSpansAllCards(t *testing.T) {
	db := setupDB(t)
	specialist := seedSpecialist(t, db)
	cardA := seedCard(t, db, specialist)
	cardB := seedCard(t, db, specialist)
	student := seedStudent(t, db)

	seedReview(t, db, cardA, student, 2)
	seedReview(t, db, cardB, student, 4)

	err := RecalculateSpecialistRating(db, specialist.ID)
	assert.NoError(t, err)
	assert.InDelta(t, 3.0, specialistRating(t, db, specialist.ID), 1e-9)
}

func TestRecalculateSpecialistRatingUnknownSpecialist(t *testing.T) {
	db := setupDB(t)

	err := RecalculateSpecialistRating(db, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRecalculateSpecialistRatingIgnoresOtherSpecialists(t *testing.T) {
	db := setupDB(t)
	specialist := seedSpecialist(t, db)
	other := seedSpecialist(t, db)
	card := seedCard(t, db, specialist)
	otherCard := seedCard(t, db, other)
	student := seedStudent(t, db)

	seedReview(t, db, card, student, 4)
	seedReview(t, db, otherCard, student, 1)

	assert.NoError(t, RecalculateSpecialistRating(db, specialist.ID))
	assert.Equal(t, 4.0, specialistRating(t, db, specialist.ID))
	assert.Equal(t, 0.0, specialistRating(t, db, other.ID))
}
