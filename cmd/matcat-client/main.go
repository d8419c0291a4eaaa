// Command matcat-client is the process entry point: it loads the
// client-local configuration, establishes the RSA/AES handshake with the
// catalog server, and runs the dispatch loop until the process is
// signalled to stop. There is no CLI surface beyond bootstrap and exit
// codes (spec §6): 0 on a clean shutdown, non-zero on any fatal
// configuration or handshake failure.
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/screenworks/matcat/internal/registry"
	"github.com/screenworks/matcat/internal/transport"
	"github.com/screenworks/matcat/pkg/mconfig"
	"github.com/screenworks/matcat/pkg/mlog"
)

func main() {
	os.Exit(run())
}

func run() int {
	mconfig.LoadLocalEnv()

	logger, err := mlog.NewZapLogger()
	if err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		return 1
	}
	defer logger.Sync()

	metaPath := mconfig.GetenvOrDefault("MATCAT_CLIENT_META", "clientMeta.json")

	meta, err := mconfig.LoadClientMeta(metaPath)
	if err != nil {
		logger.Errorf("load client meta: %s", err)
		return 1
	}

	priv, err := transport.LoadRSAPrivateKey(meta.KeyPath)
	if err != nil {
		logger.Errorf("load client key: %s", err)
		return 1
	}

	pinnedServerKey, err := transport.LoadServerSignature(meta.ServerSignaturePath)
	if err != nil {
		logger.Errorf("load server signature: %s", err)
		return 1
	}

	creds := loadCredentials(meta, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	addr := net.JoinHostPort(meta.ServerAddress, strconv.Itoa(meta.ServerPort))

	registries := registry.NewSet()

	client, err := transport.Dial(ctx, addr, transport.RefreshRate(meta.RefreshRate), priv, pinnedServerKey, creds, nil, registries, logger)
	if err != nil {
		logger.Errorf("connect to %s: %s", addr, err)
		return 1
	}
	defer client.Close()

	logger.Infof("connected to %s", addr)

	<-ctx.Done()
	logger.Info("shutting down")

	return 0
}

// loadCredentials reads a repeat token from disk if one is configured and
// present; JWT acquisition is out of scope (spec.md's login non-goal), so
// the JWT field is left for an operator-supplied environment variable.
func loadCredentials(meta *mconfig.ClientMeta, logger mlog.Logger) transport.Credentials {
	creds := transport.Credentials{JWT: os.Getenv("MATCAT_JWT")}

	if meta.RepeatTokenPath == "" {
		return creds
	}

	raw, err := os.ReadFile(meta.RepeatTokenPath)
	if err != nil {
		logger.Warnf("no repeat token available at %s: %s", meta.RepeatTokenPath, err)
		return creds
	}

	if len(raw) != transport.RepeatTokenSize {
		logger.Warnf("repeat token at %s has wrong size, ignoring", meta.RepeatTokenPath)
		return creds
	}

	copy(creds.RepeatToken[:], raw)
	creds.HasRepeat = true

	return creds
}
