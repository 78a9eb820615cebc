package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/brainventure/internal/learning"
	"github.com/abhisek/brainventure/internal/progress"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the user profile and preferences",
	RunE: withEnv(func(cmd *cobra.Command, args []string, env *appEnv) error {
		rec, err := env.svc.Record(cmd.Context(), env.cfg.UserID)
		if err != nil {
			return err
		}
		printProfile(cmd, rec)
		return nil
	}),
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields and preferences",
	RunE: withEnv(func(cmd *cobra.Command, args []string, env *appEnv) error {
		ctx, user := cmd.Context(), env.cfg.UserID
		f := cmd.Flags()

		var u learning.ProfileUpdate
		changed := false
		for name, dst := range map[string]**string{"name": &u.DisplayName, "email": &u.Email, "bio": &u.Bio} {
			if f.Changed(name) {
				v, _ := f.GetString(name)
				*dst = &v
				changed = true
			}
		}
		if changed {
			if _, err := env.svc.UpdateProfile(ctx, user, u); err != nil {
				return err
			}
		}

		if f.Changed("theme") || f.Changed("notifications") || f.Changed("email-updates") {
			rec, err := env.svc.Record(ctx, user)
			if err != nil {
				return err
			}
			prefs := rec.Preferences
			if f.Changed("theme") {
				prefs.Theme, _ = f.GetString("theme")
			}
			if f.Changed("notifications") {
				prefs.NotificationsEnabled, _ = f.GetBool("notifications")
			}
			if f.Changed("email-updates") {
				prefs.EmailUpdates, _ = f.GetBool("email-updates")
			}
			if _, err := env.svc.UpdatePreferences(ctx, user, prefs); err != nil {
				return err
			}
		}

		settings, _ := f.GetStringToString("notify")
		for key, val := range settings {
			on := val == "true" || val == "on" || val == "1"
			if _, err := env.svc.SetNotificationSetting(ctx, user, key, on); err != nil {
				return err
			}
		}

		rec, err := env.svc.Record(ctx, user)
		if err != nil {
			return err
		}
		printProfile(cmd, rec)
		return nil
	}),
}

func init() {
	f := profileSetCmd.Flags()
	f.String("name", "", "Display name")
	f.String("email", "", "E-mail address (empty clears it)")
	f.String("bio", "", "Short bio")
	f.String("theme", "", "Theme: light or dark")
	f.Bool("notifications", true, "Enable notifications")
	f.Bool("email-updates", false, "Receive e-mail updates")
	f.StringToString("notify", nil, "Notification settings, e.g. --notify new_content=true")

	profileCmd.AddCommand(profileSetCmd)
}

func printProfile(cmd *cobra.Command, rec *progress.UserRecord) {
	out := cmd.OutOrStdout()
	onOff := func(b bool) string {
		if b {
			return "tak"
		}
		return "nie"
	}
	fmt.Fprintf(out, "Użytkownik:          %s\n", rec.UserID)
	fmt.Fprintf(out, "Nazwa:               %s\n", rec.Profile.DisplayName)
	fmt.Fprintf(out, "E-mail:              %s\n", rec.Profile.Email)
	fmt.Fprintf(out, "Bio:                 %s\n", rec.Profile.Bio)
	fmt.Fprintf(out, "Motyw:               %s\n", rec.Preferences.Theme)
	fmt.Fprintf(out, "Powiadomienia:       %s\n", onOff(rec.Preferences.NotificationsEnabled))
	fmt.Fprintf(out, "Aktualizacje e-mail: %s\n", onOff(rec.Preferences.EmailUpdates))
	if typ := rec.NeuroleaderType(); typ != "" {
		fmt.Fprintf(out, "Typ neuroleadera:    %s\n", typ)
	}
	fmt.Fprintf(out, "Utworzono:           %s\n", rec.CreatedAt.Format("2006-01-02 15:04"))
}
