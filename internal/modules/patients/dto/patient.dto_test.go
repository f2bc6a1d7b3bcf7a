package dto

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestDeriveAgeBirthdayBoundary(t *testing.T) {
	dob := date(2000, time.June, 15)

	cases := []struct {
		name  string
		today time.Time
		want  int
	}{
		{"veille de l'anniversaire", date(2024, time.June, 14), 23},
		{"jour de l'anniversaire", date(2024, time.June, 15), 24},
		{"lendemain de l'anniversaire", date(2024, time.June, 16), 24},
		{"mois précédent", date(2024, time.May, 20), 23},
		{"mois suivant", date(2024, time.July, 1), 24},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveAge(dob, tc.today); got != tc.want {
				t.Errorf("DeriveAge(%v, %v) = %d, attendu %d", dob, tc.today, got, tc.want)
			}
		})
	}
}

func TestDeriveAgeNeverNegative(t *testing.T) {
	dob := date(2030, time.January, 1)
	if got := DeriveAge(dob, date(2024, time.June, 1)); got != 0 {
		t.Errorf("une date de naissance future doit donner 0, obtenu %d", got)
	}
}

func TestRefreshAgeSkipsUnknownBirthDate(t *testing.T) {
	patient := Patient{Age: 42}
	patient.RefreshAge(date(2024, time.June, 1))
	if patient.Age != 42 {
		t.Errorf("sans date de naissance, l'âge saisi reste tel quel, obtenu %d", patient.Age)
	}
}

func TestNeedsCounseling(t *testing.T) {
	patient := Patient{}
	if patient.NeedsCounseling() {
		t.Error("sans évaluation, pas de counseling")
	}

	patient.Assessment = &DoctorAssessment{Recommendation: RecommendationMedication}
	if patient.NeedsCounseling() {
		t.Error("un cas médicamenteux reste hors de la file de counseling")
	}

	patient.Assessment.Recommendation = RecommendationSurgery
	if !patient.NeedsCounseling() {
		t.Error("chirurgie recommandée => file de counseling")
	}
}
