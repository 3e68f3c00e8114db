package config

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Address        string
	DBDsn          string // empty selects the in-memory store
	SecretKey      string
	LogLevel       string
	LogFile        string
	PaymentDelay   time.Duration
	PaymentWorkers int
}

var (
	ErrAddressEmpty   = errors.New("address is an empty string")
	ErrSecretKeyEmpty = errors.New("secret_key is an empty string")
	ErrPaymentDelay   = errors.New("payment_delay must not be negative")
	ErrPaymentWorkers = errors.New("payment_workers must be positive")
)

func (cfg *Config) check() error {
	var errs []error

	if len(cfg.Address) == 0 {
		errs = append(errs, ErrAddressEmpty)
	}
	if len(cfg.SecretKey) == 0 {
		errs = append(errs, ErrSecretKeyEmpty)
	}
	if cfg.PaymentDelay < 0 {
		errs = append(errs, ErrPaymentDelay)
	}
	if cfg.PaymentWorkers <= 0 {
		errs = append(errs, ErrPaymentWorkers)
	}
	return errors.Join(errs...)
}

// ParseFlags reads command line flags, then lets environment variables
// (optionally from a .env file) override them.
func (cfg *Config) ParseFlags() error {
	return cfg.parse(flag.CommandLine, os.Args[1:])
}

func (cfg *Config) parse(fs *flag.FlagSet, args []string) error {
	fs.StringVar(&cfg.Address, "a", "localhost:8080", "Service address and port")
	fs.StringVar(&cfg.DBDsn, "d", "", "The database connection, in-memory store when empty")
	fs.StringVar(&cfg.SecretKey, "k", "uniaid-dev-secret", "Token signing key")
	fs.StringVar(&cfg.LogLevel, "l", "info", "Log level")
	fs.StringVar(&cfg.LogFile, "f", "logs/2006-01-02.log", "Log file name pattern")
	fs.DurationVar(&cfg.PaymentDelay, "p", 2500*time.Millisecond, "Simulated payment authorization delay")
	fs.IntVar(&cfg.PaymentWorkers, "w", 10, "Payment authorization workers")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	if envVarAddr := os.Getenv("RUN_ADDRESS"); envVarAddr != "" {
		cfg.Address = envVarAddr
	}
	if envVarDB := os.Getenv("DATABASE_URI"); envVarDB != "" {
		cfg.DBDsn = envVarDB
	}
	if envVarKey := os.Getenv("SECRET_KEY"); envVarKey != "" {
		cfg.SecretKey = envVarKey
	}
	if envVarLevel := os.Getenv("LOG_LEVEL"); envVarLevel != "" {
		cfg.LogLevel = envVarLevel
	}
	if envVarFile := os.Getenv("LOG_FILE"); envVarFile != "" {
		cfg.LogFile = envVarFile
	}
	if envVarDelay := os.Getenv("PAYMENT_DELAY"); envVarDelay != "" {
		d, err := time.ParseDuration(envVarDelay)
		if err != nil {
			return err
		}
		cfg.PaymentDelay = d
	}
	if envVarWorkers := os.Getenv("PAYMENT_WORKERS"); envVarWorkers != "" {
		n, err := strconv.Atoi(envVarWorkers)
		if err != nil {
			return err
		}
		cfg.PaymentWorkers = n
	}
	return cfg.check()
}
