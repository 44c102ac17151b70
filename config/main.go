package config

import (
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	db "github.com/matteusmoreira/IWE-sub001/db"
	mercadopago "github.com/matteusmoreira/IWE-sub001/mercadopago"
	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type Configuration struct {
	JWTSecret   string `env:"JWT_SECRET,required"`
	Port        int    `env:"PORT,default=3001"`
	Timeout     int    `env:"TIMEOUT,default=30"`
	DB          db.Storage
	SQL         database
	SMTP        smtp
	MercadoPago mercadopagoConf
	Mail        mail
	Environment string `env:"ENVIRONMENT,default=development"`
	AppName     string `env:"APP_NAME,default=enrollments"`
	BaseURL     string `env:"BACKEND_BASE_URL"`

	FrontendBaseURL     string `env:"FRONTEND_BASE_URL"`
	PasswordRecoverPath string `env:"FRONTEND_PASSWORD_RECOVER_PATH,default=/auth/recover"`
}

type database struct {
	URL            string `env:"DATA_BASE_URL,required"`
	Name           string `env:"DATA_BASE_NAME,required"`
	User           string `env:"DATA_BASE_USER,required"`
	Port           int    `env:"DATA_BASE_PORT,default=5432"`
	Password       string `env:"DATA_BASE_PASSWORD,required"`
	SSLMode        string `env:"DATA_BASE_SSL_MODE,default=disable"`
	OpenConnection int    `env:"DATA_BASE_MAX_OPEN_CONNECTION,default=5"`
}

type smtp struct {
	SMTPHost     string `env:"SMTP_HOST,required"`
	SMTPPort     int    `env:"SMTP_PORT,required"`
	SMTPUser     string `env:"SMTP_USER,required"`
	SMTPPassword string `env:"SMTP_PASSWORD,required"`
}

type mercadopagoConf struct {
	BaseURL         string `env:"MERCADOPAGO_BASEURL,default=https://api.mercadopago.com"`
	Token           string `env:"MERCADOPAGO_TOKEN"`
	PathPreferences string `env:"MERCADOPAGO_PATH_PREFERENCES,default=/checkout/preferences"`
	NotificationURL string `env:"MERCADOPAGO_NOTIFICATION_URL"`
	SuccessURL      string `env:"MERCADOPAGO_BACK_URL_SUCCESS"`
	FailureURL      string `env:"MERCADOPAGO_BACK_URL_FAILURE"`
	ReconcileSecret string `env:"RECONCILE_SECRET"`
}

type mail struct {
	PaymentSuccess  mailPaymentSuccess
	PasswordRecover mailPasswordRecover
	NameFrom        string `env:"MAIL_NAME_FROM"`
	EmailFrom       string `env:"MAIL_EMAIL_FROM"`
	Folder          string `env:"MAIL_FOLDER"`
	Path            string `env:"MAIL_PATH"`
}

type mailPaymentSuccess struct {
	Subject  string `env:"MAIL_PAYMENT_SUCCESS_SUBJECT"`
	Template string `env:"MAIL_PAYMENT_SUCCESS_TEMPLATE"`
}

type mailPasswordRecover struct {
	Subject  string `env:"MAIL_PASSWORD_RECOVER_SUBJECT"`
	Template string `env:"MAIL_PASSWORD_RECOVER_TEMPLATE"`
}

type AppContext struct {
	Config      Configuration
	SQLConn     *sqlx.DB
	DB          db.Storage
	SMTP        *gomail.Dialer
	MercadoPago mercadopago.API
}

func CreateConnectionSQL(conf database) (*sqlx.DB, error) {
	conn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", conf.URL, strconv.Itoa(conf.Port), conf.User, conf.Password, conf.Name, conf.SSLMode)
	connection, err := sqlx.Connect("postgres", conn)
	if err != nil {
		return nil, err
	}
	return connection, nil
}

func CreateNewConnectionSMTP(conf smtp) *gomail.Dialer {
	conn := gomail.NewDialer(conf.SMTPHost, conf.SMTPPort, conf.SMTPUser, conf.SMTPPassword)
	return conn
}

func CreateMercadoPagoIntegration(conf mercadopagoConf) *mercadopago.MP {
	mp := mercadopago.MP{
		BaseURL:         conf.BaseURL,
		PathPreferences: conf.PathPreferences,
		NotificationURL: conf.NotificationURL,
	}

	return &mp
}

var logger *log.Entry

func SetLogger(newLogger *log.Entry) {
	logger = newLogger
}

func GetLogger() *log.Entry {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return logger
}
