package soap

import (
	"encoding/xml"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"newswire/internal/auth"
	"newswire/internal/config"
	"newswire/internal/db"
	"newswire/internal/user"
)

// Every operation takes the bearer token as an explicit argument:
// SOAP has no header-based session, so authorization is re-validated
// inside each call against the same secret and claims as the primary
// API. Failures are reported inline as success/error fields.

const tokenDuration = 24 * time.Hour

type soapUser struct {
	ID        uint   `xml:"id"`
	Username  string `xml:"username"`
	Email     string `xml:"email"`
	Role      string `xml:"role"`
	CreatedAt string `xml:"createdAt"`
	UpdatedAt string `xml:"updatedAt"`
}

func formatUser(u user.User) *soapUser {
	return &soapUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Service) validateToken(tokenStr string) *auth.Claims {
	claims, err := auth.ParseJWT(s.cfg.Server.JWTSecret, tokenStr)
	if err != nil {
		return nil
	}
	return claims
}

type Service struct {
	cfg *config.Config
}

func NewService(cfg *config.Config) *Service {
	return &Service{cfg: cfg}
}

// dispatch decodes the operation payload and runs the matching
// handler.
func (s *Service) dispatch(op string, payload []byte) (any, bool) {
	switch op {
	case "authenticateUser":
		var req authenticateUserRequest
		_ = xml.Unmarshal(payload, &req)
		return s.authenticateUser(req), true
	case "getUsers":
		var req getUsersRequest
		_ = xml.Unmarshal(payload, &req)
		return s.getUsers(req), true
	case "getUserById":
		var req getUserByIDRequest
		_ = xml.Unmarshal(payload, &req)
		return s.getUserByID(req), true
	case "addUser":
		var req addUserRequest
		_ = xml.Unmarshal(payload, &req)
		return s.addUser(req), true
	case "updateUser":
		var req updateUserRequest
		_ = xml.Unmarshal(payload, &req)
		return s.updateUser(req), true
	case "deleteUser":
		var req deleteUserRequest
		_ = xml.Unmarshal(payload, &req)
		return s.deleteUser(req), true
	}
	return nil, false
}

type authenticateUserRequest struct {
	Username string `xml:"username"`
	Password string `xml:"password"`
}

type authenticateUserResponse struct {
	XMLName xml.Name  `xml:"tns:authenticateUserResponse"`
	Success bool      `xml:"success"`
	Error   string    `xml:"error"`
	Token   string    `xml:"token"`
	User    *soapUser `xml:"user,omitempty"`
}

func (s *Service) authenticateUser(req authenticateUserRequest) authenticateUserResponse {
	if req.Username == "" || req.Password == "" {
		return authenticateUserResponse{Error: "Username and password are required"}
	}
	var u user.User
	err := db.DB.Where("username = ? OR email = ?", req.Username, req.Username).First(&u).Error
	if err != nil {
		return authenticateUserResponse{Error: "Invalid credentials"}
	}
	if err := user.CheckPassword(u.PasswordHash, req.Password); err != nil {
		return authenticateUserResponse{Error: "Invalid credentials"}
	}
	token, err := auth.GenerateJWT(s.cfg.Server.JWTSecret, u.ID, u.Username, u.Role, tokenDuration)
	if err != nil {
		log.Printf("[soap] token generation failed: %v", err)
		return authenticateUserResponse{Error: "Internal server error"}
	}
	return authenticateUserResponse{Success: true, Token: token, User: formatUser(u)}
}

type getUsersRequest struct {
	Token string `xml:"token"`
	Page  int    `xml:"page"`
	Limit int    `xml:"limit"`
	Role  string `xml:"role"`
}

type getUsersResponse struct {
	XMLName xml.Name   `xml:"tns:getUsersResponse"`
	Success bool       `xml:"success"`
	Error   string     `xml:"error"`
	Users   []soapUser `xml:"users"`
	Total   int64      `xml:"total"`
	Page    int        `xml:"page"`
	Limit   int        `xml:"limit"`
}

func (s *Service) getUsers(req getUsersRequest) getUsersResponse {
	claims := s.validateToken(req.Token)
	if claims == nil {
		return getUsersResponse{Error: "Invalid or expired token"}
	}
	if claims.Role != user.RoleAdmin {
		return getUsersResponse{Error: "Insufficient privileges"}
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 10
	}
	q := db.DB.Model(&user.User{})
	if req.Role != "" {
		q = q.Where("role = ?", req.Role)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return getUsersResponse{Error: "Internal server error"}
	}
	var users []user.User
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error
	if err != nil {
		return getUsersResponse{Error: "Internal server error"}
	}
	out := make([]soapUser, 0, len(users))
	for _, u := range users {
		out = append(out, *formatUser(u))
	}
	return getUsersResponse{Success: true, Users: out, Total: total, Page: page, Limit: limit}
}

type getUserByIDRequest struct {
	Token  string `xml:"token"`
	UserID uint   `xml:"userId"`
}

type getUserByIDResponse struct {
	XMLName xml.Name  `xml:"tns:getUserByIdResponse"`
	Success bool      `xml:"success"`
	Error   string    `xml:"error"`
	User    *soapUser `xml:"user,omitempty"`
}

func (s *Service) getUserByID(req getUserByIDRequest) getUserByIDResponse {
	if s.validateToken(req.Token) == nil {
		return getUserByIDResponse{Error: "Invalid or expired token"}
	}
	if req.UserID == 0 {
		return getUserByIDResponse{Error: "User ID is required"}
	}
	var u user.User
	if err := db.DB.First(&u, req.UserID).Error; err != nil {
		return getUserByIDResponse{Error: "User not found"}
	}
	return getUserByIDResponse{Success: true, User: formatUser(u)}
}

type addUserRequest struct {
	Token    string `xml:"token"`
	Username string `xml:"username"`
	Email    string `xml:"email"`
	Password string `xml:"password"`
	Role     string `xml:"role"`
}

type addUserResponse struct {
	XMLName xml.Name  `xml:"tns:addUserResponse"`
	Success bool      `xml:"success"`
	Error   string    `xml:"error"`
	User    *soapUser `xml:"user,omitempty"`
}

func (s *Service) addUser(req addUserRequest) addUserResponse {
	claims := s.validateToken(req.Token)
	if claims == nil {
		return addUserResponse{Error: "Invalid or expired token"}
	}
	if claims.Role != user.RoleAdmin {
		return addUserResponse{Error: "Insufficient privileges"}
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return addUserResponse{Error: "Username, email, and password are required"}
	}
	role := user.Role(req.Role)
	if req.Role == "" {
		role = user.RoleVisitor
	}
	if !role.Valid() {
		return addUserResponse{Error: "Invalid role"}
	}
	pwHash, err := user.HashPasswordCost(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return addUserResponse{Error: "Internal server error"}
	}
	u := user.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := db.DB.Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return addUserResponse{Error: duplicateField(req.Username, 0) + " already exists"}
		}
		return addUserResponse{Error: "Internal server error"}
	}
	return addUserResponse{Success: true, User: formatUser(u)}
}

type updateUserRequest struct {
	Token    string  `xml:"token"`
	UserID   uint    `xml:"userId"`
	Username *string `xml:"username"`
	Email    *string `xml:"email"`
	Password *string `xml:"password"`
	Role     *string `xml:"role"`
}

type updateUserResponse struct {
	XMLName xml.Name  `xml:"tns:updateUserResponse"`
	Success bool      `xml:"success"`
	Error   string    `xml:"error"`
	User    *soapUser `xml:"user,omitempty"`
}

func (s *Service) updateUser(req updateUserRequest) updateUserResponse {
	claims := s.validateToken(req.Token)
	if claims == nil {
		return updateUserResponse{Error: "Invalid or expired token"}
	}
	if claims.Role != user.RoleAdmin {
		return updateUserResponse{Error: "Insufficient privileges"}
	}
	if req.UserID == 0 {
		return updateUserResponse{Error: "User ID is required"}
	}
	var u user.User
	if err := db.DB.First(&u, req.UserID).Error; err != nil {
		return updateUserResponse{Error: "User not found"}
	}
	if req.Role != nil {
		role := user.Role(*req.Role)
		if !role.Valid() {
			return updateUserResponse{Error: "Invalid role"}
		}
		u.Role = role
	}
	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Password != nil && *req.Password != "" {
		pwHash, err := user.HashPasswordCost(*req.Password, s.cfg.BcryptCost)
		if err != nil {
			return updateUserResponse{Error: "Internal server error"}
		}
		u.PasswordHash = pwHash
	}
	if err := db.DB.Save(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return updateUserResponse{Error: duplicateField(u.Username, u.ID) + " already exists"}
		}
		return updateUserResponse{Error: "Internal server error"}
	}
	return updateUserResponse{Success: true, User: formatUser(u)}
}

type deleteUserRequest struct {
	Token  string `xml:"token"`
	UserID uint   `xml:"userId"`
}

type deleteUserResponse struct {
	XMLName xml.Name `xml:"tns:deleteUserResponse"`
	Success bool     `xml:"success"`
	Error   string   `xml:"error"`
}

func (s *Service) deleteUser(req deleteUserRequest) deleteUserResponse {
	claims := s.validateToken(req.Token)
	if claims == nil {
		return deleteUserResponse{Error: "Invalid or expired token"}
	}
	if claims.Role != user.RoleAdmin {
		return deleteUserResponse{Error: "Insufficient privileges"}
	}
	if req.UserID == 0 {
		return deleteUserResponse{Error: "User ID is required"}
	}
	var u user.User
	if err := db.DB.First(&u, req.UserID).Error; err != nil {
		return deleteUserResponse{Error: "User not found"}
	}
	if u.ID == claims.UserID {
		return deleteUserResponse{Error: "Cannot delete your own account"}
	}
	counts, err := user.ArticleCounts(db.DB, []uint{u.ID})
	if err != nil {
		return deleteUserResponse{Error: "Internal server error"}
	}
	if counts[u.ID] > 0 {
		return deleteUserResponse{Error: "Cannot delete user with existing articles"}
	}
	if err := db.DB.Delete(&u).Error; err != nil {
		return deleteUserResponse{Error: "Internal server error"}
	}
	return deleteUserResponse{Success: true}
}

func duplicateField(username string, excludeID uint) string {
	var count int64
	db.DB.Model(&user.User{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count(&count)
	if count > 0 {
		return "username"
	}
	return "email"
}
