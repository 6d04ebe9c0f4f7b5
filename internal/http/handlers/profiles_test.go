package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hiremesh/jobhub/internal/domain/profile"
	"github.com/hiremesh/jobhub/internal/domain/user"
	"github.com/hiremesh/jobhub/internal/http/handlers"
)

type fakeProfilesRepo struct {
	getSeekerFn      func(ctx context.Context, userID string) (profile.SeekerProfile, error)
	upsertSeekerFn   func(ctx context.Context, p profile.SeekerProfile) error
	getEmployerFn    func(ctx context.Context, userID string) (profile.EmployerProfile, error)
	upsertEmployerFn func(ctx context.Context, p profile.EmployerProfile) error
}

func (f *fakeProfilesRepo) GetSeeker(ctx context.Context, userID string) (profile.SeekerProfile, error) {
	if f.getSeekerFn != nil {
		return f.getSeekerFn(ctx, userID)
	}

	return profile.SeekerProfile{}, profile.ErrNotFound
}

func (f *fakeProfilesRepo) UpsertSeeker(ctx context.Context, p profile.SeekerProfile) error {
	if f.upsertSeekerFn != nil {
		return f.upsertSeekerFn(ctx, p)
	}

	return nil
}

func (f *fakeProfilesRepo) GetEmployer(ctx context.Context, userID string) (profile.EmployerProfile, error) {
	if f.getEmployerFn != nil {
		return f.getEmployerFn(ctx, userID)
	}

	return profile.EmployerProfile{}, profile.ErrNotFound
}

func (f *fakeProfilesRepo) UpsertEmployer(ctx context.Context, p profile.EmployerProfile) error {
	if f.upsertEmployerFn != nil {
		return f.upsertEmployerFn(ctx, p)
	}

	return nil
}

type fakeContactUpdater struct {
	user            user.User
	updateContactFn func(ctx context.Context, id string, fullname, phone, avatarURL *string) (user.User, error)

	contactUpdated bool
}

func (f *fakeContactUpdater) GetByID(ctx context.Context, id string) (user.User, error) {
	if f.user.ID == "" {
		return user.User{}, user.ErrNotFound
	}

	return f.user, nil
}

func (f *fakeContactUpdater) UpdateContact(ctx context.Context, id string, fullname, phone, avatarURL *string) (user.User, error) {
	f.contactUpdated = true

	if f.updateContactFn != nil {
		return f.updateContactFn(ctx, id, fullname, phone, avatarURL)
	}

	u := f.user

	if fullname != nil {
		u.Fullname = *fullname
	}
	if phone != nil {
		u.Phone = *phone
	}

	return u, nil
}

func TestProfileMeHandler(t *testing.T) {
	seeker := user.User{ID: newUUID(), Fullname: "Jane Doe", Role: user.RoleSeeker}

	employer := user.User{ID: newUUID(), Fullname: "Acme HR", Role: user.RoleEmployer}

	tests := []struct {
		name      string
		u         user.User
		repoSetUp func(*fakeProfilesRepo)
	}{
		{
			name: "seeker_with_profile",
			u:    seeker,
			repoSetUp: func(f *fakeProfilesRepo) {
				f.getSeekerFn = func(ctx context.Context, userID string) (profile.SeekerProfile, error) {
					return profile.SeekerProfile{UserID: userID, Headline: "Backend dev"}, nil
				}
			},
		},
		{
			// a fresh account has no profile row yet and still gets 200
			name: "seeker_without_profile",
			u:    seeker,
		},
		{
			name: "employer_with_profile",
			u:    employer,
			repoSetUp: func(f *fakeProfilesRepo) {
				f.getEmployerFn = func(ctx context.Context, userID string) (profile.EmployerProfile, error) {
					return profile.EmployerProfile{UserID: userID, CompanyName: "Acme"}, nil
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeProfilesRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewProfilesHandler(repo, &fakeContactUpdater{user: tt.u})

			r := setupAuthedRouter(http.MethodGet, "/api/profile/me", tt.u.ID, tt.u.Role, h.Me)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, authedRequest(http.MethodGet, "/api/profile/me", ""))

			if w.Code != http.StatusOK {
				t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
			}

			var resp struct {
				User    user.User       `json:"user"`
				Profile json.RawMessage `json:"profile"`
			}

			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}

			if resp.User.ID != tt.u.ID {
				t.Fatalf("got user %q, want %q", resp.User.ID, tt.u.ID)
			}

			if len(resp.Profile) == 0 {
				t.Fatal("profile missing from response")
			}
		})
	}
}

func TestUpdateMeSeeker(t *testing.T) {
	u := user.User{ID: newUUID(), Fullname: "Jane Doe", Role: user.RoleSeeker}

	var upserted *profile.SeekerProfile

	repo := &fakeProfilesRepo{
		upsertSeekerFn: func(ctx context.Context, p profile.SeekerProfile) error {
			upserted = &p
			return nil
		},
	}

	users := &fakeContactUpdater{user: u}

	h := handlers.NewProfilesHandler(repo, users)

	r := setupAuthedRouter(http.MethodPut, "/api/profile/me", u.ID, u.Role, h.UpdateMe)

	body := `{
		"fullname": "Jane A. Doe",
		"headline": "Senior Backend Engineer",
		"experiences": [{"jobTitle": "Engineer", "company": "Acme", "currentlyWorking": true}]
	}`

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPut, "/api/profile/me", body))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if upserted == nil {
		t.Fatal("profile not upserted")
	}

	if upserted.UserID != u.ID {
		t.Fatalf("got profile user %q, want %q", upserted.UserID, u.ID)
	}

	if upserted.Headline != "Senior Backend Engineer" {
		t.Fatalf("headline not applied: %q", upserted.Headline)
	}

	if len(upserted.Experiences) != 1 || upserted.Experiences[0].Company != "Acme" {
		t.Fatalf("experiences not applied: %+v", upserted.Experiences)
	}

	if !users.contactUpdated {
		t.Fatal("fullname change did not reach the users row")
	}
}

func TestUpdateMeEmployer(t *testing.T) {
	u := user.User{ID: newUUID(), Fullname: "Acme HR", Role: user.RoleEmployer}

	var upserted *profile.EmployerProfile

	repo := &fakeProfilesRepo{
		upsertEmployerFn: func(ctx context.Context, p profile.EmployerProfile) error {
			upserted = &p
			return nil
		},
	}

	users := &fakeContactUpdater{user: u}

	h := handlers.NewProfilesHandler(repo, users)

	r := setupAuthedRouter(http.MethodPut, "/api/profile/me", u.ID, u.Role, h.UpdateMe)

	body := `{"companyName": "Acme Corp", "companyWebsite": "https://acme.example"}`

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodPut, "/api/profile/me", body))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if upserted == nil || upserted.CompanyName != "Acme Corp" {
		t.Fatalf("company name not applied: %+v", upserted)
	}

	// no identity fields in the payload, the users row stays untouched
	if users.contactUpdated {
		t.Fatal("contact update ran without identity fields")
	}
}

func TestCurrentUserHandler(t *testing.T) {
	u := user.User{ID: newUUID(), Fullname: "Jane Doe", Email: "jane@example.com", Role: user.RoleSeeker}

	tests := []struct {
		name           string
		userID         string
		users          *fakeContactUpdater
		wantStatusCode int
	}{
		{
			name:           "success",
			userID:         u.ID,
			users:          &fakeContactUpdater{user: u},
			wantStatusCode: http.StatusOK,
		},
		{
			// a deleted account with a still-valid token reads as missing
			name:           "user_gone",
			userID:         newUUID(),
			users:          &fakeContactUpdater{},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewUsersHandler(tt.users)

			r := setupAuthedRouter(http.MethodGet, "/api/user/currentuser", tt.userID, user.RoleSeeker, h.CurrentUser)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, authedRequest(http.MethodGet, "/api/user/currentuser", ""))

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var got user.User

				if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
					t.Fatalf("decode: %v", err)
				}

				if got.ID != u.ID {
					t.Fatalf("got user %q, want %q", got.ID, u.ID)
				}
			}
		})
	}
}
