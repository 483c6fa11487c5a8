package util

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	LinkKindParticipant = "participant"
	LinkKindGroup       = "group"
)

// LinkClaims identify who a delivery link belongs to. Participant links
// carry a participant id; group links carry only the group and require
// self-registration before the session can start.
type LinkClaims struct {
	Kind          string `json:"kind"`
	ParticipantID string `json:"participantId,omitempty"`
	AssessmentID  string `json:"assessmentId"`
	GroupID       string `json:"groupId,omitempty"`
	jwt.RegisteredClaims
}

func GenerateParticipantToken(participantID, assessmentID, secret string, expiration time.Duration) (string, error) {
	claims := &LinkClaims{
		Kind:          LinkKindParticipant,
		ParticipantID: participantID,
		AssessmentID:  assessmentID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GenerateGroupToken(groupID, assessmentID, secret string, expiration time.Duration) (string, error) {
	claims := &LinkClaims{
		Kind:         LinkKindGroup,
		AssessmentID: assessmentID,
		GroupID:      groupID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseLinkToken(tokenString, secret string) (*LinkClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &LinkClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*LinkClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidDeliveryToken
}

func GetLinkFromContext(c *gin.Context) *LinkClaims {
	link, exists := c.Get("link")
	if !exists {
		return nil
	}
	claims, ok := link.(*LinkClaims)
	if !ok {
		return nil
	}
	return claims
}
