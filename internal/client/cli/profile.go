package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/medportal/internal/client/models"
	"github.com/dmitrijs2005/medportal/internal/client/services"
)

// Profile shows the logged-in user's profile, fetching it first when the
// session holds none.
func (a *App) Profile(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	s := a.auth.Session()
	p := s.Profile
	if s.State == services.StatePartial || p == nil {
		var err error
		if p, err = a.auth.RefreshProfile(ctx); err != nil {
			a.report("Loading profile", err)
			return err
		}
	}

	a.printProfile(*p)
	return nil
}

func (a *App) printProfile(p models.Profile) {
	a.mu.Lock()
	defer a.mu.Unlock()

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", k, v)
		}
	}
	row("Name", p.DisplayName())
	row("Username", p.Username)
	row("Email", p.Email)
	row("Role", p.Role)
	row("Phone", p.Phone)
	row("Insurance", p.InsuranceInfo)
	row("Picture", p.PictureURL())
	tw.Flush()
}

// UpdateProfile edits the patient fields. Empty answers keep current values.
func (a *App) UpdateProfile(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	var cur models.Profile
	if p := a.auth.Session().Profile; p != nil {
		cur = *p
	}

	upd := models.ProfileUpdate{}
	var err error
	if upd.Name, err = getWithDefault(a.reader, "Name", cur.DisplayName(), a.out); err != nil {
		return err
	}
	if upd.Email, err = getWithDefault(a.reader, "Email", cur.Email, a.out); err != nil {
		return err
	}
	if upd.Phone, err = getWithDefault(a.reader, "Phone", cur.Phone, a.out); err != nil {
		return err
	}
	if upd.InsuranceInfo, err = getWithDefault(a.reader, "Insurance info", cur.InsuranceInfo, a.out); err != nil {
		return err
	}

	p, err := a.auth.UpdateProfile(ctx, upd)
	if err != nil {
		a.report("Profile update", err)
		return err
	}

	a.printf("Profile updated\n")
	a.printProfile(*p)
	return nil
}

// Doctors lists the clinic's doctors.
func (a *App) Doctors(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	ds, err := a.auth.ListDoctors(ctx)
	if err != nil {
		a.report("Listing doctors", err)
		return err
	}
	if len(ds) == 0 {
		a.printf("No doctors found\n")
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSPECIALIZATION\tCONTACT\tEXPERIENCE\tFEES")
	for _, d := range ds {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.2f\n", d.ID, d.Specialization, d.Contact, d.Experience, d.Fees)
	}
	return tw.Flush()
}

// Status prints the session state, the current screen and connectivity.
func (a *App) Status(context.Context) error {
	s := a.auth.Session()
	mode := a.Mode()
	if mode == "" {
		mode = "unknown"
	}

	a.printf("Session: %s\n", s.State)
	if a.isLoggedIn() {
		a.printf("User: %s (id %s, role %s)\n", s.Claims.Username, s.Claims.SubjectID, s.Claims.Role)
		if !s.Claims.ExpiresAt.IsZero() {
			a.printf("Token expires: %s\n", s.Claims.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
		}
	}
	a.printf("Screen: %s\n", a.Route())
	a.printf("Connection: %s\n", mode)
	return nil
}
