package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wasmdapps/sdk-go/client"
	sdklog "github.com/wasmdapps/sdk-go/pkg/log"
	"github.com/wasmdapps/sdk-go/wallet"
	"github.com/wasmdapps/sdk-go/workflow"
)

var (
	// Version information (set at build time)
	Version = "dev"

	// Global flags
	cfgFile  string
	logLevel string
	storeDir string
	grpcAddr string
	insecure bool
)

var rootCmd = &cobra.Command{
	Use:   "pingpong",
	Short: "Ping a CosmWasm ping-pong contract",
	Long: `pingpong provisions a local wallet, funds it from the network faucet
and drives a ping-pong contract: instantiate or reuse an instance,
send pings and read the ping counter.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (yaml or toml); defaults to oysternet")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (empty disables logging)")
	rootCmd.PersistentFlags().StringVar(&storeDir, "store", defaultStoreDir(), "directory holding the wallet secret")
	rootCmd.PersistentFlags().StringVar(&grpcAddr, "grpc-endpoint", "", "override the gRPC endpoint")
	rootCmd.PersistentFlags().BoolVar(&insecure, "insecure", false, "disable TLS for gRPC")

	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(faucetCmd)
	rootCmd.AddCommand(instantiateCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(interactiveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorBanner(err))
		os.Exit(1)
	}
}

func defaultStoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pingpong"
	}
	return filepath.Join(home, ".pingpong")
}

// app bundles what every command needs. close must be called when done.
type app struct {
	cfg    client.Config
	store  *wallet.DBStore
	flow   *workflow.Workflow
	logger sdklog.Logger
	zap    *zap.Logger
}

func newApp(ctx context.Context) (*app, error) {
	cfg := client.DefaultConfig()
	if cfgFile != "" {
		loaded, err := client.LoadConfig(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	zl, err := newZapLogger(logLevel)
	if err != nil {
		return nil, err
	}

	opts := []client.Option{client.WithLogger(sdklog.FromZap(zl))}
	if grpcAddr != "" {
		opts = append(opts, client.WithGRPCAddr(grpcAddr))
	}
	if insecure {
		opts = append(opts, client.WithInsecureGRPC(true))
	}

	store, err := wallet.OpenLevelDBStore("wallet", storeDir)
	if err != nil {
		_ = zl.Sync()
		return nil, fmt.Errorf("open wallet store: %w", err)
	}

	flow, err := client.NewWorkflow(cfg, store, opts...)
	if err != nil {
		_ = store.Close()
		_ = zl.Sync()
		return nil, err
	}

	a := &app{cfg: cfg, store: store, flow: flow, logger: sdklog.FromZap(zl), zap: zl}
	if err := flow.Bootstrap(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) close() {
	_ = a.flow.Close()
	_ = a.store.Close()
	_ = a.zap.Sync()
}

// newZapLogger builds a console logger at level; an empty level disables output.
func newZapLogger(level string) (*zap.Logger, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return zap.NewNop(), nil
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = lvl
	zcfg.DisableStacktrace = true
	return zcfg.Build()
}
