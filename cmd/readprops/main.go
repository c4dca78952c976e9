package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/animalet/properties-go/pkg/config"
	"github.com/animalet/properties-go/pkg/loader"
	"github.com/animalet/properties-go/pkg/properties"
	"github.com/animalet/properties-go/pkg/sources"
	"github.com/animalet/properties-go/pkg/store"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Version information set during build
var (
	version = "dev"
)

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// definitionList collects repeatable -D key=value flags.
type definitionList map[string]string

func (d definitionList) String() string {
	parts := make([]string, 0, len(d))
	for k, v := range d {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (d definitionList) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok || key == "" {
		return errors.Errorf("definition must be key=value, got %q", value)
	}
	d[key] = val
	return nil
}

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	debugMode := flag.Bool("debug", false, "Enable debug mode")
	configFile := flag.String("config", "", "Path to configuration file")
	quiet := flag.Bool("quiet", false, "Ignore missing or unreadable property files")
	skip := flag.Bool("skip", false, "Skip property loading entirely")

	var profiles stringList
	flag.Var(&profiles, "profile", "Active profile for ${project.activeProfile} expansion (repeatable)")

	definitions := definitionList{}
	flag.Var(definitions, "D", "System property definition as key=value (repeatable)")

	flag.Parse()

	if *debugMode {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if *showVersion {
		fmt.Printf("%s %s\n", "readprops", version)
		os.Exit(0)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    false,
		TimeFormat: "2006-01-02 15:04:05",
	})

	defer func() {
		// Exit gracefully after panicking
		if r := recover(); r != nil {
			log.Fatal().Msgf("Fatal error: %v", r)
			os.Exit(1)
		}
	}()

	cfg := &config.Config{}
	if *configFile != "" {
		loaded, err := config.NewConfig(*configFile)
		if err != nil {
			panic(err)
		}
		cfg = loaded
	}

	files := append(append([]string{}, cfg.Files...), flag.Args()...)
	if len(files) == 0 {
		n, err := fmt.Fprintln(os.Stderr, "Error: at least one properties file is required (via -config or arguments)")
		if err != nil || n <= 0 {
			panic("Failed to print error message")
		}
		os.Exit(1)
	}

	l := &loader.Loader{
		Files:    files,
		Profiles: append(append([]string{}, cfg.Profiles...), profiles...),
		Quiet:    cfg.Quiet || *quiet,
		Skip:     cfg.Skip || *skip,
		System:   buildSystemChain(cfg, definitions),
	}

	resolved, err := l.Load()
	if err != nil {
		panic(errors.Wrap(err, "failed to load properties"))
	}

	target, cleanup := buildStore(cfg)
	defer cleanup()

	if err := target.Merge(resolved); err != nil {
		panic(errors.Wrapf(err, "failed to merge properties into %s store", target.Name()))
	}
	log.Info().Int("keys", len(resolved)).Str("store", target.Name()).Msg("Properties merged")

	if memory, ok := target.(*store.Memory); ok {
		printProperties(memory.Snapshot())
	}
}

// buildSystemChain assembles the system property fallback chain from the
// -D definitions and the config's definitions, file, vault and aws sections,
// in that order.
func buildSystemChain(cfg *config.Config, flagDefs definitionList) properties.Source {
	chain := properties.Chain{}

	defs := map[string]string{}
	for k, v := range cfg.Definitions {
		defs[k] = v
	}
	for k, v := range flagDefs {
		// command line wins over the config file
		defs[k] = v
	}
	if len(defs) > 0 {
		chain = append(chain, properties.NewStatic("definitions", defs))
	}

	fileCfg, err := config.Get[sources.FileConfig](cfg, "file")
	if err != nil {
		panic(errors.Wrap(err, "failed to load file source configuration"))
	}
	if fileCfg != nil {
		fileSource, err := fileCfg.CreateClient()
		if err != nil {
			panic(errors.Wrap(err, "failed to create file source"))
		}
		chain = append(chain, fileSource)
	}

	vaultCfg, err := config.Get[sources.VaultConfig](cfg, "vault")
	if err != nil {
		panic(errors.Wrap(err, "failed to load Vault configuration"))
	}
	if vaultCfg != nil {
		vaultClient, err := vaultCfg.CreateClient()
		if err != nil {
			panic(errors.Wrap(err, "failed to create Vault client"))
		}
		chain = append(chain, sources.NewVault(vaultClient, vaultCfg.Path))
	}

	awsCfg, err := config.Get[sources.AWSConfig](cfg, "aws")
	if err != nil {
		panic(errors.Wrap(err, "failed to load AWS configuration"))
	}
	if awsCfg != nil {
		awsClient, err := awsCfg.CreateClient()
		if err != nil {
			panic(errors.Wrap(err, "failed to create AWS Secrets Manager client"))
		}
		chain = append(chain, sources.NewAWS(awsClient, awsCfg.SecretName))
	}

	return chain
}

// buildStore picks the target property store from the config. Without a
// store section the in-memory store is used and its content is printed.
func buildStore(cfg *config.Config) (store.Store, func()) {
	redisCfg, err := config.Get[store.RedisConfig](cfg, "redis")
	if err != nil {
		panic(errors.Wrap(err, "failed to load Redis configuration"))
	}
	if redisCfg != nil {
		pool, err := redisCfg.CreateClient()
		if err != nil {
			panic(errors.Wrap(err, "failed to create Redis client"))
		}
		cleanup := func() {
			if err := pool.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close Redis pool")
			}
		}
		return store.NewRedis(pool, redisCfg.Hash), cleanup
	}

	memcachedCfg, err := config.Get[store.MemcachedConfig](cfg, "memcached")
	if err != nil {
		panic(errors.Wrap(err, "failed to load Memcached configuration"))
	}
	if memcachedCfg != nil {
		client, err := memcachedCfg.CreateClient()
		if err != nil {
			panic(errors.Wrap(err, "failed to create Memcached client"))
		}
		return store.NewMemcached(client, memcachedCfg.KeyPrefix), func() {}
	}

	postgresCfg, err := config.Get[store.PostgresConfig](cfg, "postgres")
	if err != nil {
		panic(errors.Wrap(err, "failed to load PostgreSQL configuration"))
	}
	if postgresCfg != nil {
		pool, err := postgresCfg.CreateClient()
		if err != nil {
			panic(errors.Wrap(err, "failed to create PostgreSQL pool"))
		}
		return store.NewPostgres(pool, postgresCfg.Table), pool.Close
	}

	mongoCfg, err := config.Get[store.MongoConfig](cfg, "mongo")
	if err != nil {
		panic(errors.Wrap(err, "failed to load MongoDB configuration"))
	}
	if mongoCfg != nil {
		client, err := mongoCfg.CreateClient()
		if err != nil {
			panic(errors.Wrap(err, "failed to create MongoDB client"))
		}
		cleanup := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("Failed to disconnect MongoDB client")
			}
		}
		return store.NewMongo(client, mongoCfg.Database, mongoCfg.Collection), cleanup
	}

	return store.NewMemory(), func() {}
}

func printProperties(m properties.Map) {
	for _, k := range m.Keys() {
		fmt.Printf("%s=%s\n", k, m[k])
	}
}
