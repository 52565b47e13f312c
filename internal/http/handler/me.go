package handler

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"github.com/Orlando-Villanueva/my-delight-sub000/internal/auth"
)

type MeHandler struct {
	DB *gorm.DB
}

func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var u auth.User
	if err := h.DB.First(&u, uid).Error; err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"user_id": u.ID,
		"name":    u.Name,
		"email":   u.Email,
	})
}
