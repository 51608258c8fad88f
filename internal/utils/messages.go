package utils

import (
	"golang.org/x/text/language"
)

// MessageKey identifies a user-facing message independent of locale.
type MessageKey string

const (
	MsgInvalidBody         MessageKey = "invalid_body"
	MsgInvalidID           MessageKey = "invalid_id"
	MsgInvalidCredentials  MessageKey = "invalid_credentials"
	MsgInvalidRefreshToken MessageKey = "invalid_refresh_token"
	MsgRefreshTokenMissing MessageKey = "refresh_token_missing"
	MsgAccessTokenMissing  MessageKey = "access_token_missing"
	MsgAccessTokenInvalid  MessageKey = "access_token_invalid"
	MsgForbidden           MessageKey = "forbidden"
	MsgEmailExists         MessageKey = "email_exists"
	MsgUserNotFound        MessageKey = "user_not_found"
	MsgInternal            MessageKey = "internal"
	MsgLoginSucceeded      MessageKey = "login_succeeded"
	MsgLogoutSucceeded     MessageKey = "logout_succeeded"
	MsgInvalidEmail        MessageKey = "invalid_email"
	MsgInvalidRole         MessageKey = "invalid_role"
	MsgPasswordBlank       MessageKey = "password_blank"
	MsgPasswordTooShort    MessageKey = "password_too_short"
	MsgPasswordTooLong     MessageKey = "password_too_long"
)

var (
	brazilianPortuguese = language.MustParse("pt-BR")

	supportedLocales = []language.Tag{language.English, brazilianPortuguese}
	localeMatcher    = language.NewMatcher(supportedLocales)

	catalogs = map[language.Tag]map[MessageKey]string{
		language.English: {
			MsgInvalidBody:         "invalid request body",
			MsgInvalidID:           "invalid or missing id",
			MsgInvalidCredentials:  "invalid credentials",
			MsgInvalidRefreshToken: "invalid refresh token",
			MsgRefreshTokenMissing: "refresh token not found",
			MsgAccessTokenMissing:  "access token not found",
			MsgAccessTokenInvalid:  "invalid or expired access token",
			MsgForbidden:           "forbidden",
			MsgEmailExists:         "user already exists",
			MsgUserNotFound:        "user not found",
			MsgInternal:            "internal server error",
			MsgLoginSucceeded:      "login successful",
			MsgLogoutSucceeded:     "logout successful",
			MsgInvalidEmail:        "invalid email format",
			MsgInvalidRole:         "invalid role",
			MsgPasswordBlank:       "password must not be blank",
			MsgPasswordTooShort:    "password should be at least 8 characters",
			MsgPasswordTooLong:     "password should be at most 16 characters",
		},
		brazilianPortuguese: {
			MsgInvalidBody:         "corpo da requisição inválido",
			MsgInvalidID:           "id inválido ou ausente",
			MsgInvalidCredentials:  "informações não coincidem",
			MsgInvalidRefreshToken: "refresh token inválido",
			MsgRefreshTokenMissing: "refresh token não encontrado",
			MsgAccessTokenMissing:  "token não encontrado",
			MsgAccessTokenInvalid:  "token inválido",
			MsgForbidden:           "acesso negado",
			MsgEmailExists:         "usuário já existente",
			MsgUserNotFound:        "usuário não encontrado",
			MsgInternal:            "erro interno do servidor",
			MsgLoginSucceeded:      "login realizado com sucesso",
			MsgLogoutSucceeded:     "logout realizado com sucesso",
			MsgInvalidEmail:        "formato de email inválido",
			MsgInvalidRole:         "perfil inválido",
			MsgPasswordBlank:       "a senha não pode estar em branco",
			MsgPasswordTooShort:    "a senha deve ter pelo menos 8 caracteres",
			MsgPasswordTooLong:     "a senha deve ter no máximo 16 caracteres",
		},
	}
)

// Catalog resolves message keys for one configured locale.
type Catalog struct {
	tag      language.Tag
	messages map[MessageKey]string
}

// NewCatalog picks the closest supported locale, falling back to English.
func NewCatalog(locale string) *Catalog {
	requested, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(requested) == 0 {
		requested = []language.Tag{language.English}
	}
	_, index, _ := localeMatcher.Match(requested...)
	tag := supportedLocales[index]
	return &Catalog{tag: tag, messages: catalogs[tag]}
}

func (c *Catalog) Locale() language.Tag {
	return c.tag
}

func (c *Catalog) Message(key MessageKey) string {
	if msg, ok := c.messages[key]; ok {
		return msg
	}
	if msg, ok := catalogs[language.English][key]; ok {
		return msg
	}
	return string(key)
}
