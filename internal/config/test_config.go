package config

func LoadTestConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8081,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Name:     "brandvault_test",
			User:     "test_user",
			Password: "test_password",
		},
		Uploads: UploadsConfig{
			TempPrefix:   "temp-uploads",
			TempTTLHours: 1,
		},
		Dashboard: DashboardConfig{
			StorageLimitGB: 10,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		},
	}
}
