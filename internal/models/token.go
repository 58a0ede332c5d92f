package models

import "github.com/golang-jwt/jwt/v5"

// TokenDetails holds the details of an issued access/refresh token pair.
type TokenDetails struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AccessUUID   string `json:"-"`
	RefreshUUID  string `json:"-"`
	AtExpires    int64  `json:"at_expires"`
	RtExpires    int64  `json:"rt_expires"`
}

// Claims представляет стандартные поля JWT и пользовательские данные,
// которые мы включаем в токен.
type Claims struct {
	UserID               int64 `json:"user_id"`
	jwt.RegisteredClaims       // Issuer, Subject, ExpiresAt, IssuedAt, ID (JTI) и т.д.
}
