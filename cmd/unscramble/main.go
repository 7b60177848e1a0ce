// Package main provides the unscramble CLI tool for recovering the word
// order of a BIP39 recovery phrase.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/complex-gh/unscramble"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-tty"
	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	maxWidth = 72

	defaultLanguage = "english"
)

var (
	baseStyle  = lipgloss.NewStyle().Margin(0, 0, 1, 2) //nolint:mnd
	red        = lipgloss.Color(completeColor("#FF4444", "196", "9"))
	green      = lipgloss.Color(completeColor("#04B575", "42", "2"))
	errorStyle = baseStyle.
			Foreground(red).
			Background(lipgloss.AdaptiveColor{Light: completeColor("#FFEBEB", "255", "7"), Dark: completeColor("#2B1A1A", "235", "8")}).
			Padding(1, 2) //nolint:mnd
	successStyle = baseStyle.
			Foreground(green).
			Background(lipgloss.AdaptiveColor{Light: completeColor("#EBFFF0", "255", "7"), Dark: completeColor("#1A2B20", "235", "8")}).
			Padding(1, 2) //nolint:mnd

	language   string
	maxPerms   uint64
	addrIndex  uint32
	bip44      bool
	bip49      bool
	bip84      bool
	workers    int
	startIndex uint64

	rootCmd = &cobra.Command{
		Use:   "unscramble <address> [word]...",
		Short: "Recover the word order of a BIP39 recovery phrase",
		Long: `Recover the word order of a BIP39 recovery phrase.

Takes a wallet address and the complete set of 12 or 24 recovery words
in the wrong order, then tries reorderings of those words until one of
them derives the address, or the permutation budget runs out. The first
receive address of the matching path is checked:
    m/44'/0'/0'/0/0 for legacy "1..." addresses
    m/49'/0'/0'/0/0 for segwit "3..." addresses
    m/84'/0'/0'/0/0 for native segwit "bc1..." addresses
Use --derivation to check a later address index, and --bip44, --bip49
or --bip84 to pin the path when the address prefix is not enough.

With no words on the command line, words are read from a pipe, or
prompted for without echo.

SECURITY TIP: Add a space before the command to prevent it from being
saved in your shell history. For example:
    unscramble bc1q... word1 word2 ...
   ^ (note the leading space)
Most shells (bash, zsh) are configured to ignore commands that start
with a space. Check your HISTCONTROL or HIST_IGNORE_SPACE settings.`,
		Example: `  unscramble bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about abandon
  unscramble --bip44 --derivation 2 1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA word1 word2 ...
  unscramble --language spanish --workers 8 --max-permutations 5000000 bc1q... word1 word2 ...
  unscramble --start-index 1000000 bc1q... word1 word2 ...
  echo "word1 word2 ..." | unscramble bc1q...
  unscramble bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No address at all, show help
			if len(args) == 0 {
				return cmd.Help()
			}
			return run(cmd.Context(), args[0], args[1:])
		},
	}

	manCmd = &cobra.Command{
		Use:          "man",
		Args:         cobra.NoArgs,
		Short:        "generate man pages",
		Hidden:       true,
		SilenceUsage: true,
		RunE: func(*cobra.Command, []string) error {
			manPage, err := mcobra.NewManPage(1, rootCmd)
			if err != nil {
				//nolint: wrapcheck
				return err
			}
			manPage = manPage.WithSection("Copyright", "(C) 2025-2026 complex (complex@ft.hn)\n"+
				"Released under MIT license.")
			fmt.Println(manPage.Build(roff.NewDocument()))
			return nil
		},
	}

	// completionCmd generates shell completion scripts for bash, zsh, fish, and powershell.
	completionCmd = &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for unscramble.

To load completions:

Bash:
  $ source <(unscramble completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ unscramble completion bash > /etc/bash_completion.d/unscramble
  # macOS:
  $ unscramble completion bash > $(brew --prefix)/etc/bash_completion.d/unscramble

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ unscramble completion zsh > "${fpath[1]}/_unscramble"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ unscramble completion fish | source

  # To load completions for each session, execute once:
  $ unscramble completion fish > ~/.config/fish/completions/unscramble.fish

PowerShell:
  PS> unscramble completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> unscramble completion powershell > unscramble.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		SilenceUsage:          true,
		RunE: func(_ *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unknown shell: %s", args[0])
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&language, "language", "l", defaultLanguage, "Wordlist language; the default also auto-detects from the words")
	rootCmd.PersistentFlags().Uint64VarP(&maxPerms, "max-permutations", "m", unscramble.DefaultMaxTrials, "Maximum number of word orderings to try")
	rootCmd.PersistentFlags().Uint32VarP(&addrIndex, "derivation", "d", 0, "Address index i in m/{purpose}'/0'/0'/0/i")
	rootCmd.PersistentFlags().BoolVar(&bip44, "bip44", false, "Force legacy P2PKH derivation (BIP44)")
	rootCmd.PersistentFlags().BoolVar(&bip49, "bip49", false, "Force segwit P2SH-P2WPKH derivation (BIP49)")
	rootCmd.PersistentFlags().BoolVar(&bip84, "bip84", false, "Force native segwit P2WPKH derivation (BIP84)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "j", 0, "Worker goroutines sharding the search (0 means one per CPU)")
	rootCmd.PersistentFlags().Uint64Var(&startIndex, "start-index", 0, "Permutation index to resume an earlier search from")
	rootCmd.MarkFlagsMutuallyExclusive("bip44", "bip49", "bip84")
	rootCmd.AddCommand(manCmd)
	rootCmd.AddCommand(completionCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, target string, argWords []string) error {
	if maxPerms == 0 {
		return inputError(fmt.Errorf("--max-permutations must be at least 1"))
	}
	if addrIndex > unscramble.MaxDerivationIndex {
		return inputError(fmt.Errorf("derivation index %d is out of range (max %d)", addrIndex, unscramble.MaxDerivationIndex))
	}

	words, err := gatherWords(argWords)
	if err != nil {
		return err
	}
	if n := len(words); n != 12 && n != 24 {
		return inputError(fmt.Errorf("expected 12 or 24 recovery words, got %d", n))
	}

	target, err = unscramble.CanonicalAddress(target)
	if err != nil {
		return inputError(err)
	}

	scheme, err := resolveScheme(target)
	if err != nil {
		return inputError(err)
	}

	searchLang, err := resolveLanguage(words)
	if err != nil {
		return inputError(err)
	}

	printConfig(target, scheme, searchLang, len(words))

	started := time.Now()
	res, err := unscramble.Search(ctx, target, words, unscramble.Options{
		Language:   searchLang,
		Scheme:     scheme,
		Index:      addrIndex,
		MaxTrials:  maxPerms,
		StartIndex: startIndex,
		Workers:    workers,
		Progress: func(trials uint64) {
			fmt.Printf("checked %s permutations...\n", formatCount(trials))
		},
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(started).Round(time.Millisecond)

	if !res.Found {
		if res.Trials == 0 {
			fmt.Println("nothing searched: the start index is past the end of the permutation space")
			return nil
		}
		fmt.Printf("no match within %s permutations (%s of them skipped) in %s\n",
			formatCount(res.Trials), formatCount(res.Skipped), elapsed)
		fmt.Printf("resume where this run stopped with --start-index %d, or raise --max-permutations\n",
			startIndex+res.Trials)
		return nil
	}

	printMatch(res, elapsed)
	return nil
}

// gatherWords collects the candidate words from the command line, from piped
// stdin, or from a no-echo terminal prompt, in that order of preference.
// Recovery words are secrets, so the prompt keeps them out of shell history
// and terminal scrollback.
func gatherWords(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	if fi, _ := os.Stdin.Stat(); (fi.Mode() & os.ModeNamedPipe) != 0 {
		bts, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("could not read words from stdin: %w", err)
		}
		return strings.Fields(string(bts)), nil
	}

	line, err := readSecret("Enter the recovery words separated by spaces: ")
	if err != nil {
		return nil, err
	}
	return strings.Fields(string(line)), nil
}

// resolveLanguage picks the search wordlist. Any explicit --language value
// other than the default is parsed strictly; the default value triggers
// detection over the candidate words, falling back to English when the words
// match no wordlist convincingly.
func resolveLanguage(words []string) (unscramble.Language, error) {
	if language != defaultLanguage {
		return unscramble.ParseLanguage(language)
	}
	detected, ok := unscramble.DetectLanguage(words)
	if !ok {
		fmt.Println("language detection inconclusive, assuming english")
		return unscramble.English, nil
	}
	if detected != unscramble.English {
		fmt.Printf("detected wordlist language: %s\n", detected)
	}
	return detected, nil
}

// resolveScheme picks the derivation scheme from the flags, falling back to
// the address prefix.
func resolveScheme(target string) (unscramble.Scheme, error) {
	switch {
	case bip44:
		return unscramble.Legacy, nil
	case bip49:
		return unscramble.WrappedSegwit, nil
	case bip84:
		return unscramble.NativeSegwit, nil
	}
	scheme, err := unscramble.DetectScheme(target)
	if err != nil {
		return 0, fmt.Errorf("%w; pass --bip44, --bip49 or --bip84", err)
	}
	return scheme, nil
}

func printConfig(target string, scheme unscramble.Scheme, searchLang unscramble.Language, wordCount int) {
	pool := workers
	if pool <= 0 {
		pool = runtime.NumCPU()
	}

	fmt.Println("[search configuration]")
	fmt.Println()
	fmt.Printf("%s (target address)\n", target)
	fmt.Printf("%s (%s)\n", scheme.Path(addrIndex), scheme.Description())
	fmt.Printf("%s wordlist, %d words\n", searchLang, wordCount)
	fmt.Printf("up to %s permutations on %d workers\n", formatCount(maxPerms), pool)
	if startIndex > 0 {
		fmt.Printf("resuming from permutation %d\n", startIndex)
	}
	fmt.Println()
}

// printMatch reports the recovered phrase together with the spendable key
// material for its derivation path.
func printMatch(res *unscramble.Result, elapsed time.Duration) {
	b := strings.Builder{}
	fmt.Fprintf(&b, "%s (recovered phrase)\n", res.Phrase)
	fmt.Fprintf(&b, "%s (derived address at %s)\n", res.Address, res.Path)
	fmt.Fprintf(&b, "permutation %d of the search order", res.TrialIndex)
	if keys, err := unscramble.DeriveKeys(res.Phrase, res.Scheme, addrIndex); err == nil {
		fmt.Fprintf(&b, "\n%s (private key WIF)", keys.PrivateWIF)
		fmt.Fprintf(&b, "\n%s (extended private key at %s)", keys.ExtendedPrivateKey, res.Path)
	}

	fmt.Printf("match found after %s permutations in %s\n", formatCount(res.Trials), elapsed)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		out := strings.Builder{}
		out.WriteRune('\n')
		renderBlock(&out, successStyle, getWidth(maxWidth), b.String())
		fmt.Print(out.String())
		return
	}
	fmt.Println()
	fmt.Println(b.String())
}

// inputError shows a styled version of an input validation error when
// attached to a terminal, then returns the error unchanged so the command
// exits with a non-zero code.
func inputError(err error) error {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		b := strings.Builder{}
		w := getWidth(maxWidth)

		b.WriteRune('\n')
		renderBlock(&b, errorStyle, w, err.Error())
		b.WriteRune('\n')

		fmt.Print(b.String())
	}
	return err
}

// formatCount renders large permutation counts with K, M and G suffixes.
func formatCount(n uint64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fG", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return strconv.FormatUint(n, 10)
}

func getWidth(maxw int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd())) //nolint: gosec
	if err != nil || w > maxw {
		return maxWidth
	}
	return w
}

func renderBlock(w io.Writer, s lipgloss.Style, width int, str string) {
	_, _ = io.WriteString(w, s.Width(width).Render(str))
	_, _ = io.WriteString(w, "\n")
}

func completeColor(truecolor, ansi256, ansi string) string {
	//nolint: exhaustive
	switch lipgloss.ColorProfile() {
	case termenv.TrueColor:
		return truecolor
	case termenv.ANSI256:
		return ansi256
	}
	return ansi
}

func readSecret(msg string) ([]byte, error) {
	defer fmt.Fprintf(os.Stderr, "\n")
	_, _ = fmt.Fprint(os.Stderr, msg)
	t, err := tty.Open()
	if err != nil {
		return nil, fmt.Errorf("could not open tty: %w", err)
	}
	defer t.Close()                                     //nolint: errcheck
	line, err := term.ReadPassword(int(t.Input().Fd())) //nolint: gosec
	if err != nil {
		return nil, fmt.Errorf("could not read words: %w", err)
	}
	return line, nil
}
