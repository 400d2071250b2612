package seeder

import (
	"context"
	"encoding/json"

	"campus-match/internal/database"
	"campus-match/internal/domain/matching"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

var demoNamespace = uuid.MustParse("5b0f4c1e-6d1a-4f6e-9a53-2c7d8e1f0a42")

// DemoUserID is stable per handle so reseeding never duplicates users.
func DemoUserID(handle string) uuid.UUID {
	return uuid.NewSHA1(demoNamespace, []byte(handle))
}

type demoProfile struct {
	Handle     string
	Name       string
	Scheme     string
	Attributes map[string]matching.Value
}

func demoProfiles() []demoProfile {
	t, r, s, f, n := matching.Text, matching.Range, matching.Set, matching.Flag, matching.Number
	return []demoProfile{
		{"ana", "Ana", matching.SchemeRoommate, map[string]matching.Value{
			"city": t("Leeds"), "budget": r(400, 600), "gender": t("female"), "prefersSameGender": f(true),
			"sleep": t("early"), "cleanliness": n(4), "guests": t("rarely"), "hobbies": s("chess", "climbing", "cooking"),
		}},
		{"bea", "Bea", matching.SchemeRoommate, map[string]matching.Value{
			"city": t("leeds"), "budget": r(500, 700), "gender": t("female"), "sleep": t("early"),
			"cleanliness": n(5), "guests": t("sometimes"), "hobbies": s("Cooking", "yoga"),
		}},
		{"cal", "Cal", matching.SchemeRoommate, map[string]matching.Value{
			"city": t("Leeds"), "budget": r(300, 450), "gender": t("male"), "religion": t("none"),
			"sleep": t("late"), "cleanliness": n(3), "guests": t("often"), "hobbies": s("gaming", "chess"),
		}},
		{"dev", "Dev", matching.SchemeRoommate, map[string]matching.Value{
			"city": t("York"), "budget": r(350, 500), "gender": t("male"), "religion": t("hindu"), "prefersSameReligion": f(true),
			"sleep": t("early"), "cleanliness": n(4), "guests": t("rarely"), "hobbies": s("cricket", "cooking"),
		}},
		{"eli", "Eli", matching.SchemeRoommate, map[string]matching.Value{
			"city": t("York"), "budget": r(450, 650), "gender": t("female"), "religion": t("hindu"),
			"sleep": t("late"), "cleanliness": n(2), "guests": t("often"), "hobbies": s("music"),
		}},
		{"ana", "Ana", matching.SchemePeer, map[string]matching.Value{
			"university": t("University of Leeds"), "location": t("Leeds"),
			"skills": s("go", "sql", "docker"), "interests": s("distributed systems", "climbing"),
		}},
		{"cal", "Cal", matching.SchemePeer, map[string]matching.Value{
			"university": t("University of Leeds"), "location": t("Leeds"),
			"skills": s("python", "sql"), "interests": s("statistics", "chess"),
		}},
		{"fin", "Fin", matching.SchemePeer, map[string]matching.Value{
			"university": t("University of York"), "location": t("york"),
			"skills": s("Go", "rust"), "interests": s("Distributed Systems"),
		}},
	}
}

// DemoProfilesSeeder inserts a small fixed population for both built-in
// schemes. Existing rows are left alone.
type DemoProfilesSeeder struct{}

func (DemoProfilesSeeder) Name() string { return "demo_profiles" }

func (DemoProfilesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "match_profiles", "user_id", "scheme", "display_name", "attributes"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(context.Background())
		}
	}()

	for _, p := range demoProfiles() {
		b, err := json.Marshal(p.Attributes)
		if err != nil {
			return eris.Wrapf(err, "encode %s/%s", p.Scheme, p.Handle)
		}
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO match_profiles (user_id, scheme, display_name, attributes) VALUES ($1, $2, $3, $4) ON CONFLICT (user_id, scheme) DO NOTHING`,
			DemoUserID(p.Handle), p.Scheme, p.Name, b,
		); err != nil {
			return eris.Wrapf(err, "insert %s/%s", p.Scheme, p.Handle)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "commit")
	}
	committed = true
	return nil
}
