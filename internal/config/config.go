package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Booking        BookingConfig        `toml:"booking"`
	AMQP           AMQPConfig           `toml:"amqp"`
	LoyaltyService LoyaltyServiceConfig `toml:"loyalty_service"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к Postgres
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к Postgres
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// BookingConfig бизнес-правила бронирования
// Значения по умолчанию зафиксированы в internal/domain и применяются,
// если секция [booking] не заполнена
type BookingConfig struct {
	MinNoticeMinutes      int     `toml:"min_notice_minutes"`      // минимальное время до начала брони
	MaxAdvanceDays        int     `toml:"max_advance_days"`        // максимальная глубина бронирования
	MinDurationMinutes    int     `toml:"min_duration_minutes"`    // минимальная длительность брони
	MaxDurationMinutes    int     `toml:"max_duration_minutes"`    // максимальная длительность брони
	DurationStepMinutes   int     `toml:"duration_step_minutes"`   // шаг длительности (кратность)
	DefaultOpenTime       string  `toml:"default_open_time"`       // часы работы по умолчанию
	DefaultCloseTime      string  `toml:"default_close_time"`      //
	DefaultPeakMultiplier float64 `toml:"default_peak_multiplier"` // множитель пиковых часов по умолчанию
	FullRefundNoticeHours int     `toml:"full_refund_notice_hours"`
	LateRefundPercent     int     `toml:"late_refund_percent"`
	PointsPerCurrencyUnit int64   `toml:"points_per_currency_unit"` // курс конвертации возврата в баллы
}

// AMQPConfig настройки подключения к RabbitMQ
type AMQPConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
}

// LoyaltyServiceConfig настройки клиента сервиса лояльности
type LoyaltyServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}
	return &cfg, nil
}
