// Package config loads settings from environment variables and an optional
// .env file using Viper.
//
// Keys map to environment variables by upper-casing and replacing dots with
// underscores, e.g. league.dir is LEAGUE_DIR and stats.database_url is
// STATS_DATABASE_URL.
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
