package commands

import (
	"fmt"
	"strings"

	"github.com/Lixing-Zhang/menuwal/internal/service"
	"github.com/spf13/cobra"
)

var slugBaseURL string

var slugCmd = &cobra.Command{
	Use:   "slug <menu name>",
	Short: "Print the slug and share link for a menu name",
	Long: `Print the slug and public share link for a menu name, the same link
the owner turns into a QR code.

Example:
  menuwal slug "The Keshvi Cafe"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSlug,
}

func init() {
	slugCmd.Flags().StringVar(&slugBaseURL, "base-url", "https://menuwal.online", "Public base URL of the menu site")
	rootCmd.AddCommand(slugCmd)
}

func runSlug(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	slug := service.Slugify(name)
	if slug == "" {
		return fmt.Errorf("menu name %q has no characters to build a slug from", name)
	}

	link, ok := service.ShareURL(slugBaseURL, name)
	if !ok {
		return fmt.Errorf("menu name %q does not survive a slug round trip; rename it without \"-\", \"_\" or repeated spaces", name)
	}

	out := cmd.OutOrStdout()
	heading(out, "%s", name)
	field(out, "slug", slug)
	field(out, "share", link)
	return nil
}
