package clicmds

import (
	"fmt"

	"github.com/spf13/cobra"
)

var chunkersCmd = &cobra.Command{
	Use:   "chunkers",
	Short: "List the registered chunking strategies",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService(profile)
		if err != nil {
			return err
		}
		for _, info := range svc.router.ListChunkers() {
			fmt.Printf("%-12s %s\n", info.Name, info.Description)
		}
		return nil
	},
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the built-in chunking profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService("")
		if err != nil {
			return err
		}
		for _, name := range []string{"default", "small", "large", "code"} {
			p := svc.cfg.ProfileByName(name)
			fmt.Printf("%-8s chunk_size=%-6d overlap=%-5d min_chars_per_sentence=%d\n",
				name, p.ChunkSize, p.Overlap, p.MinCharsPerSentence)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chunkersCmd)
	rootCmd.AddCommand(profilesCmd)
}
