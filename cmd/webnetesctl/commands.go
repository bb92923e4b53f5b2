package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/webnetes/webnetesctl/internal/apply"
	"github.com/webnetes/webnetesctl/internal/config"
	"github.com/webnetes/webnetesctl/internal/discovery"
	"github.com/webnetes/webnetesctl/internal/draft"
	"github.com/webnetes/webnetesctl/internal/logging"
	"github.com/webnetes/webnetesctl/internal/panel"
	"github.com/webnetes/webnetesctl/internal/status"
	"github.com/webnetes/webnetesctl/internal/ui"
)

// Persistent flags
var (
	nodeConfigPath string
	controlURL     string
	nodeID         string
	logLevel       string
)

// Command flags
var (
	skipConfirmation bool
	locateFlag       bool
	statusTimeout    int
	discoverSeconds  int
	saveNodes        bool
	forceInit        bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&nodeConfigPath, "node-config", "", "Node configuration document (default from settings)")
	rootCmd.PersistentFlags().StringVar(&controlURL, "control-url", "", "Node control URL, e.g. ws://node.local:8080/control")
	rootCmd.PersistentFlags().StringVar(&nodeID, "node", "", "Target a node saved by discover --save")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(configCmd)
}

// annotationPanel marks commands that take over the terminal
const annotationPanel = "panel"

// initLogging sets up zap before any command runs. The flag wins over the
// settings file, which wins over WEBNETESCTL_LOG_LEVEL. Panel commands log
// to a file so zap never writes over the alt screen.
func initLogging(cmd *cobra.Command, args []string) error {
	level := logLevel
	if level == "" {
		if settings, err := config.LoadSettings(); err == nil {
			level = settings.Preferences.LogLevel
		}
	}
	if cmd.Annotations[annotationPanel] == "" {
		return logging.Initialize(level)
	}
	path, err := panelLogPath()
	if err != nil {
		return err
	}
	return logging.InitializeFile(level, path)
}

// commandContext is cancelled on interrupt
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt)
}

func runPanel(cmd *cobra.Command, args []string) error {
	return launchPanel(cmd, panel.ScreenConfig, false)
}

// editCmd opens the standalone editor
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the node configuration",
	Long: `Open the node configuration in a standalone editor.

ctrl+s saves the document and applies it to the node, esc closes the editor.
Unless confirmation is skipped, closing with unsaved changes asks first.`,
	Example: `  # Edit the configured node document
  webnetesctl edit

  # Edit another document and push it to a node
  webnetesctl edit --node-config ./node.yaml --control-url ws://10.0.0.7:8080/control

  # Close without asking about unsaved changes
  webnetesctl edit --skip-confirmation`,
	Annotations: map[string]string{annotationPanel: "true"},
	RunE:        runEdit,
}

func init() {
	editCmd.Flags().BoolVar(&skipConfirmation, "skip-confirmation", false, "Discard unsaved changes on close without asking (default from settings)")
}

func runEdit(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	skip := settings.Node.SkipConfirmation
	if cmd.Flags().Changed("skip-confirmation") {
		skip = skipConfirmation
	}
	return launchPanel(cmd, panel.ScreenEditor, skip)
}

func launchPanel(cmd *cobra.Command, screen panel.Screen, skip bool) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	t, err := resolveTarget(settings, nodeID, nodeConfigPath, controlURL)
	if err != nil {
		return err
	}

	doc, err := apply.Load(t.ConfigPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg := panel.Config{
		Context:          ctx,
		Info:             nodeInfo(t),
		Document:         doc,
		Applier:          newApplier(t.ConfigPath, t.ControlURL),
		StartScreen:      screen,
		SkipConfirmation: skip,
		Scan:             scanFunc(discoverTimeout(settings, 0)),
		ScanTimeout:      discoverTimeout(settings, 0),
		Retarget: func(url string) apply.Applier {
			return newApplier(t.ConfigPath, url)
		},
	}

	var pipeline *status.Pipeline
	if screen == panel.ScreenConfig {
		pipeline, err = newPipeline(settings.Status)
		if err != nil {
			return err
		}
		defer pipeline.Stop()
		cfg.Pipeline = pipeline
	}

	logging.Info("Starting panel",
		zap.String("screen", string(screen)),
		zap.String("node_config", t.ConfigPath),
		zap.String("control_url", t.ControlURL))

	p := tea.NewProgram(panel.NewAppModel(cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if app, ok := final.(panel.AppModel); ok {
		app.Shutdown()
		if err == nil {
			return finishPanel(ctx, app, ui.NewPromptDecider(), cmd.OutOrStdout(), draftPath(t.ConfigPath))
		}
	}
	if err != nil {
		return fmt.Errorf("panel error: %w", err)
	}
	return nil
}

// draftPath is where an unsaved draft is kept when the panel quits
func draftPath(configPath string) string {
	if configPath == "" {
		configPath = "node.yaml"
	}
	return configPath + ".draft"
}

// finishPanel handles a draft left unsaved when the panel quit. It asks the
// editor's discard question on the terminal. A kept draft is never applied:
// it is written next to the node configuration for a later apply.
func finishPanel(ctx context.Context, app panel.AppModel, decider draft.Decider, out io.Writer, keepPath string) error {
	if r := app.LastResult; r != nil && !r.OK() && app.CurrentScreen == panel.ScreenResult {
		return fmt.Errorf("apply to %s failed: %w", r.Target, r.Err)
	}

	session := app.Session()
	if !session.Dirty() {
		return nil
	}

	outcome, err := session.Close(ctx, decider)
	if err != nil {
		return err
	}
	if outcome != draft.OutcomeKept {
		return nil
	}

	if err := (apply.FileApplier{Path: keepPath}).Apply(ctx, session.Draft()); err != nil {
		return fmt.Errorf("failed to keep draft: %w", err)
	}
	logging.LogDraft("kept_on_quit", session.Draft().Digest(), zap.String("path", keepPath))

	printer := ui.NewPrinter(out)
	printer.Println(fmt.Sprintf("Unsaved changes kept in %s", keepPath))
	printer.Println(fmt.Sprintf("Apply them with: webnetesctl apply %s", keepPath))
	return nil
}

// statusCmd prints the status card without the panel
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the node status card",
	Long: `Resolve the node's public address and the place its coordinates map to,
then print the status card.

Without --locate the default coordinates are reverse geocoded. With --locate
the device position is looked up first.`,
	Example: `  # Status at the default coordinates
  webnetesctl status

  # Locate the device first
  webnetesctl status --locate`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&locateFlag, "locate", false, "Look up the device position before geocoding")
	statusCmd.Flags().IntVar(&statusTimeout, "timeout", 0, "Lookup timeout in seconds (default from settings)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	t, err := resolveTarget(settings, nodeID, nodeConfigPath, controlURL)
	if err != nil {
		return err
	}

	st := *settings.Status
	if statusTimeout > 0 {
		st.LookupTimeout = statusTimeout
	}
	pipeline, err := newPipeline(&st)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	pipeline.Start(ctx)
	if locateFlag {
		pipeline.Locate(ctx)
	}
	pipeline.Wait()
	pipeline.Stop()

	ui.NewPrinter(cmd.OutOrStdout()).PrintStatus(pipeline.Snapshot(), nodeInfo(t))
	return nil
}

// applyCmd applies a document file
var applyCmd = &cobra.Command{
	Use:   "apply <file>",
	Short: "Apply a configuration document",
	Long: `Apply a configuration document without opening the editor.

The document is written to the node configuration file and, when a control
URL is set, pushed to the running node.`,
	Example: `  # Apply to the configured node
  webnetesctl apply node.yaml

  # Apply to a specific node
  webnetesctl apply node.yaml --control-url ws://10.0.0.7:8080/control`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	t, err := resolveTarget(settings, nodeID, nodeConfigPath, controlURL)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	result := apply.Run(ctx, newApplier(t.ConfigPath, t.ControlURL), draft.Document(data))
	return reportApply(ui.NewPrinter(cmd.OutOrStdout()), result)
}

func reportApply(printer *ui.Printer, result apply.Result) error {
	if !result.OK() {
		printer.PrintError("Apply Failed", result.Err, apply.GetTroubleshootingHint(result.Err))
		return fmt.Errorf("apply to %s failed", result.Target)
	}
	printer.PrintSuccess("Configuration Applied", []ui.Field{
		{Key: "Target", Value: result.Target},
		{Key: "Digest", Value: result.Digest},
		{Key: "Duration", Value: result.Duration.Round(time.Millisecond).String()},
	})
	return nil
}

// discoverCmd finds nodes on the local network
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover nodes on the local network",
	Long: `Discover Webnetes nodes using mDNS/DNS-SD.

Nodes advertise themselves as ` + discovery.ServiceType + `. With --save every
node found is recorded in the settings file with its control URL.`,
	Example: `  # Scan with the default timeout
  webnetesctl discover

  # Longer scan, remember what was found
  webnetesctl discover --timeout 15 --save

  # Wait for one node to come up
  webnetesctl discover --node edge-42 --timeout 60 --save`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&discoverSeconds, "timeout", 0, "Scan timeout in seconds (default from settings)")
	discoverCmd.Flags().BoolVar(&saveNodes, "save", false, "Record discovered nodes in the settings file")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	timeout := discoverTimeout(settings, discoverSeconds)
	printer := ui.NewPrinter(cmd.OutOrStdout())

	printer.Println(fmt.Sprintf("Scanning for nodes (timeout: %s)...", timeout))
	printer.Newline()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	var nodes []*discovery.Node
	if nodeID != "" {
		scanner := discovery.NewScanner()
		scanner.Timeout = timeout
		node, err := scanner.WaitForNode(ctx, nodeID)
		if err != nil {
			return err
		}
		nodes = append(nodes, node)
	} else {
		nodes, err = discovery.Scan(ctx, timeout)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
	}

	if len(nodes) == 0 {
		printer.Println("No nodes found.")
		printer.Newline()
		printer.Println("Troubleshooting:")
		printer.Println("  - Ensure the node is running and on the same network")
		printer.Println("  - Check that multicast traffic is not blocked")
		printer.Println("  - Try increasing --timeout for slower networks")
		printer.Println("  - Use --control-url to target a node directly")
		return nil
	}

	if saveNodes {
		for _, n := range nodes {
			settings.UpdateNodeLastSeen(n.ID, n.Address, n.ControlURL())
		}
	}
	header, rows := nodeTable(settings, nodes)
	printer.PrintTable(header, rows)

	if saveNodes {
		if err := config.SaveGlobal(); err != nil {
			return fmt.Errorf("failed to save nodes: %w", err)
		}
		printer.Newline()
		printer.Println(fmt.Sprintf("Saved %d node(s) to the settings file", len(nodes)))
	}
	return nil
}

// configCmd manages the settings file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the settings file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.CreateDefaultConfig(forceInit)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(settings)
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), strings.TrimRight(string(data), "\n")+"\n")
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configNicknameCmd = &cobra.Command{
	Use:   "nickname <node-id> <nickname>",
	Short: "Name a saved node",
	Long: `Give a node a nickname. The nickname is shown on the status card and in
discover listings. Use --node <node-id> to target the node later.`,
	Example: `  webnetesctl config nickname edge-42 "Rack 3, left"`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		if settings.GetNode(args[0]) == nil {
			return fmt.Errorf("unknown node %q (run 'webnetesctl discover --save' first)", args[0])
		}
		settings.SetNodeNickname(args[0], args[1])
		if err := settings.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %q\n", args[0], args[1])
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing settings file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configNicknameCmd)
}
