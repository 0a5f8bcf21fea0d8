package middleware

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
)

// Locals keys set by the auth middlewares
const (
	LocalOrganizationID  = "organization_id"
	LocalMemberID        = "member_id"
	LocalMemberRole      = "member_role"
	LocalParticipantID   = "participant_id"
	LocalQuestionnaireID = "questionnaire_id"
)

// MemberClaims são as claims de um token de membro de organização
type MemberClaims struct {
	UID  string `json:"uid"`
	OID  string `json:"oid"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ParticipantClaims são as claims de um token de participante (possivelmente
// anônimo), emitido por link de acesso e restrito a um questionário
type ParticipantClaims struct {
	PID string `json:"pid"`
	QID string `json:"qid"`
	jwt.RegisteredClaims
}

func secret() []byte {
	s := os.Getenv("PULSE_JWT_SECRET")
	if s == "" {
		s = "pulse-dev-secret"
	}
	return []byte(s)
}

// SignMemberToken emite um token HS256 para um membro de organização
func SignMemberToken(userID, organizationID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := MemberClaims{
		UID:  userID,
		OID:  organizationID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// SignParticipantToken emite um token de acesso de participante restrito a
// um questionário
func SignParticipantToken(participantID, questionnaireID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := ParticipantClaims{
		PID: participantID,
		QID: questionnaireID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        participantID + ":" + questionnaireID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// ParseMemberToken valida e decodifica um token de membro
func ParseMemberToken(token string) (*MemberClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &MemberClaims{}, func(t *jwt.Token) (interface{}, error) {
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := parsed.Claims.(*MemberClaims); ok && parsed.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}

// ParseParticipantToken valida e decodifica um token de participante
func ParseParticipantToken(token string) (*ParticipantClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &ParticipantClaims{}, func(t *jwt.Token) (interface{}, error) {
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := parsed.Claims.(*ParticipantClaims); ok && parsed.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// RequireMember exige um token de membro cuja organização corresponda ao
// parâmetro :orgId da rota. A autorização fina (papéis) acontece antes do
// core ser invocado; o core em si não autoriza nada.
func RequireMember() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
		}
		claims, err := ParseMemberToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}
		if orgID := c.Params("orgId"); orgID != "" && claims.OID != orgID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "organization scope mismatch"})
		}
		c.Locals(LocalOrganizationID, claims.OID)
		c.Locals(LocalMemberID, claims.UID)
		c.Locals(LocalMemberRole, claims.Role)
		return c.Next()
	}
}

// RequireParticipant exige um token de participante e restringe a rota ao
// questionário embutido no token
func RequireParticipant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing participant token"})
		}
		claims, err := ParseParticipantToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid participant token"})
		}
		if qid := c.Params("id"); qid != "" && claims.QID != qid {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "token not valid for this questionnaire"})
		}
		c.Locals(LocalParticipantID, claims.PID)
		c.Locals(LocalQuestionnaireID, claims.QID)
		return c.Next()
	}
}
