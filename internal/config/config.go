package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Shop      ShopConfig
	Sales     SalesConfig
	Scheduler SchedulerConfig
	Log       LogConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// PrinterConfig selects the receipt printer backend
type PrinterConfig struct {
	Type    string // usb, network or none
	USBPath string
	Address string
	Width   int
}

// ShopConfig is printed in receipt headers
type ShopConfig struct {
	Name    string
	Address string
	Phone   string
}

type SalesConfig struct {
	LowStockThreshold decimal.Decimal
}

type SchedulerConfig struct {
	Enabled            bool
	DailySummaryCron   string
	MonthlyInvoiceCron string
	PurgeCron          string
}

type LogConfig struct {
	Level string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "config: .env file not found, using environment variables: %v\n", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "dairy-pos")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "dairy_pos")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_ADDRESS", "192.168.1.100:9100")
	viper.SetDefault("PRINTER_WIDTH", 48)
	viper.SetDefault("SHOP_NAME", "Dairy Shop")
	viper.SetDefault("SHOP_ADDRESS", "")
	viper.SetDefault("SHOP_PHONE", "")
	viper.SetDefault("LOW_STOCK_THRESHOLD", "5")
	viper.SetDefault("SCHEDULER_ENABLED", true)
	viper.SetDefault("SCHEDULER_DAILY_SUMMARY_CRON", "55 23 * * *")
	viper.SetDefault("SCHEDULER_MONTHLY_INVOICE_CRON", "30 0 1 * *")
	viper.SetDefault("SCHEDULER_PURGE_CRON", "0 * * * *")
	viper.SetDefault("LOG_LEVEL", "info")

	threshold, err := decimal.NewFromString(viper.GetString("LOW_STOCK_THRESHOLD"))
	if err != nil {
		threshold = decimal.NewFromInt(5)
	}

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Type:    viper.GetString("PRINTER_TYPE"),
			USBPath: viper.GetString("PRINTER_USB_PATH"),
			Address: viper.GetString("PRINTER_ADDRESS"),
			Width:   viper.GetInt("PRINTER_WIDTH"),
		},
		Shop: ShopConfig{
			Name:    viper.GetString("SHOP_NAME"),
			Address: viper.GetString("SHOP_ADDRESS"),
			Phone:   viper.GetString("SHOP_PHONE"),
		},
		Sales: SalesConfig{
			LowStockThreshold: threshold,
		},
		Scheduler: SchedulerConfig{
			Enabled:            viper.GetBool("SCHEDULER_ENABLED"),
			DailySummaryCron:   viper.GetString("SCHEDULER_DAILY_SUMMARY_CRON"),
			MonthlyInvoiceCron: viper.GetString("SCHEDULER_MONTHLY_INVOICE_CRON"),
			PurgeCron:          viper.GetString("SCHEDULER_PURGE_CRON"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
