package config

type App struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"databaseURL"`
	JWTSecret   string `yaml:"jwtSecret"`
	Env         string `yaml:"env"`

	MinioEndpoint  string `yaml:"minioEndpoint"`
	MinioAccessKey string `yaml:"minioAccessKey"`
	MinioSecretKey string `yaml:"minioSecretKey"`
	MinioBucket    string `yaml:"minioBucket"`
	MinioUseSSL    bool   `yaml:"minioUseSSL"`
}
