package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/wmsclient/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-u string   seed account email
//	-p string   seed account password
//	-m int      max upload size, bytes
//	-l string   public URL used in upload responses
//	-auth bool  require a bearer token for entity and file calls
//
// Only these flags are read from args (see flagx.FilterArgs), so -env and
// unrelated flags do not cause errors.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-t", "-u", "-p", "-m", "-l", "-auth"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Address, "a", cfg.Address, "address and port to run server")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	ttl := fs.Int("t", int(cfg.TokenTTL.Minutes()), "access token validity (in minutes)")
	fs.StringVar(&cfg.SeedEmail, "u", cfg.SeedEmail, "seed account email")
	fs.StringVar(&cfg.SeedPassword, "p", cfg.SeedPassword, "seed account password")
	fs.Int64Var(&cfg.MaxUploadBytes, "m", cfg.MaxUploadBytes, "max upload size (bytes)")
	fs.StringVar(&cfg.PublicURL, "l", cfg.PublicURL, "public URL of the server")
	fs.BoolVar(&cfg.RequireAuth, "auth", cfg.RequireAuth, "require bearer token")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.TokenTTL = time.Duration(*ttl) * time.Minute
	return nil
}
