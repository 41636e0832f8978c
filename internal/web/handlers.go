package web

import (
	"net/http"

	"github.com/cory-johannsen/wisperwind/internal/gameerr"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message      string `json:"message"`
	Token        string `json:"token"`
	HasCharacter bool   `json:"hasCharacter"`
	RedirectTo   string `json:"redirectTo"`
}

type characterRequest struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type moveRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type combatRequest struct {
	Action string `json:"action"`
}

type craftRequest struct {
	RecipeID string `json:"recipeId"`
}

type equipRequest struct {
	InstanceID string `json:"instanceId"`
}

type unequipRequest struct {
	Slot string `json:"slot"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.auth.Register(r.Context(), req.Username, req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, messageResponse{Message: "User registered successfully!"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	token, acct, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	has, err := s.game.HasCharacter(r.Context(), acct.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := loginResponse{Token: token, HasCharacter: has}
	if has {
		resp.Message = "Login successful!"
		resp.RedirectTo = gamePage
	} else {
		resp.Message = "Login successful! Please create a character."
		resp.RedirectTo = characterCreationPage
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateCharacter(w http.ResponseWriter, r *http.Request, accountID string) {
	var req characterRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.game.CreateCharacter(r.Context(), accountID, req.Name, req.Job)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, struct {
		Message    string `json:"message"`
		RedirectTo string `json:"redirectTo"`
		Character  any    `json:"character"`
	}{
		Message:    "Character created successfully!",
		RedirectTo: "/game",
		Character:  c,
	})
}

func (s *Server) handlePlayerData(w http.ResponseWriter, r *http.Request, accountID string) {
	c, err := s.game.PlayerData(r.Context(), accountID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request, accountID string) {
	var req moveRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.X == nil || req.Y == nil {
		s.writeError(w, r, gameerr.ErrMalformedRequest.WithMessage("Both x and y are required."))
		return
	}
	res, err := s.game.Move(r.Context(), accountID, *req.X, *req.Y)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCombatAction(w http.ResponseWriter, r *http.Request, accountID string) {
	var req combatRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.game.CombatAction(r.Context(), accountID, req.Action)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRecipes(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.game.Recipes())
}

func (s *Server) handleMap(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.game.Map())
}

func (s *Server) handleCraft(w http.ResponseWriter, r *http.Request, accountID string) {
	var req craftRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.RecipeID == "" {
		s.writeError(w, r, gameerr.ErrMalformedRequest.WithMessage("recipeId is required."))
		return
	}
	res, err := s.game.Craft(r.Context(), accountID, req.RecipeID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleEquip(w http.ResponseWriter, r *http.Request, accountID string) {
	var req equipRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.game.Equip(r.Context(), accountID, req.InstanceID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleUnequip(w http.ResponseWriter, r *http.Request, accountID string) {
	var req unequipRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.game.Unequip(r.Context(), accountID, req.Slot)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}
