package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sandeepkv93/tcheck/internal/model"
)

type titleRequest struct {
	Title string `json:"title"`
}

type taskRequest struct {
	Text  string `json:"text"`
	TabID string `json:"tabId"`
}

type priorityRequest struct {
	Priority string `json:"priority"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

type statsResponse struct {
	TabID      string `json:"tabId"`
	Total      int    `json:"total"`
	Completed  int    `json:"completed"`
	Percentage int    `json:"percentage"`
}

type settingsResponse struct {
	Theme     string   `json:"theme"`
	Premium   bool     `json:"premium"`
	Launched  bool     `json:"launched"`
	ActiveTab string   `json:"activeTab"`
	Applied   uint64   `json:"applied"`
	Persisted uint64   `json:"persisted"`
	Durable   bool     `json:"durable"`
	Dirty     []string `json:"dirty,omitempty"`
	LastError string   `json:"lastError,omitempty"`
}

func (s *Server) listTabs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tabs": s.board.Tabs(), "active": s.board.ActiveTab()})
}

func (s *Server) createTab(c *gin.Context) {
	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tab, err := s.board.AddTab(c.Request.Context(), req.Title)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, tab)
}

func (s *Server) renameTab(c *gin.Context) {
	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	if err := s.board.RenameTab(c.Request.Context(), id, req.Title); err != nil {
		s.fail(c, err)
		return
	}
	tab, err := s.board.Tab(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tab)
}

func (s *Server) closeTab(c *gin.Context) {
	if err := s.board.CloseTab(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

func (s *Server) selectTab(c *gin.Context) {
	if err := s.board.SelectTab(c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": s.board.ActiveTab()})
}

func (s *Server) listTasks(c *gin.Context) {
	tab := c.Query("tab")
	if tab == "" {
		c.JSON(http.StatusOK, s.board.Tasks())
		return
	}
	if _, err := s.board.Tab(tab); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.board.TasksForTab(tab))
}

func (s *Server) createTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := s.board.AddTask(c.Request.Context(), req.Text, req.TabID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) updateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	if err := s.board.UpdateTask(c.Request.Context(), id, req.Text); err != nil {
		s.fail(c, err)
		return
	}
	s.respondTask(c, id)
}

func (s *Server) deleteTask(c *gin.Context) {
	if err := s.board.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) toggleTask(c *gin.Context) {
	task, err := s.board.ToggleTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) setPriority(c *gin.Context) {
	var req priorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := model.ParsePriority(req.Priority)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !s.board.Premium() {
		s.fail(c, ErrPremiumRequired)
		return
	}
	id := c.Param("id")
	if err := s.board.SetPriority(c.Request.Context(), id, p); err != nil {
		s.fail(c, err)
		return
	}
	s.respondTask(c, id)
}

func (s *Server) respondTask(c *gin.Context, id string) {
	task, err := s.board.Task(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) stats(c *gin.Context) {
	tab := c.DefaultQuery("tab", s.board.ActiveTab())
	if _, err := s.board.Tab(tab); err != nil {
		s.fail(c, err)
		return
	}
	st := s.board.Stats(tab)
	c.JSON(http.StatusOK, statsResponse{
		TabID:      tab,
		Total:      st.Total,
		Completed:  st.Completed,
		Percentage: st.Percentage,
	})
}

func (s *Server) settings(c *gin.Context) {
	c.JSON(http.StatusOK, s.settingsSnapshot())
}

func (s *Server) settingsSnapshot() settingsResponse {
	status := s.board.PersistStatus()
	resp := settingsResponse{
		Theme:     s.board.Theme(),
		Premium:   s.board.Premium(),
		Launched:  s.board.Launched(),
		ActiveTab: s.board.ActiveTab(),
		Applied:   status.Applied,
		Persisted: status.Persisted,
		Durable:   status.Durable(),
		Dirty:     status.Dirty,
	}
	if status.LastErr != nil {
		resp.LastError = status.LastErr.Error()
	}
	return resp
}

func (s *Server) getTheme(c *gin.Context) {
	c.JSON(http.StatusOK, themeRequest{Theme: s.board.Theme()})
}

func (s *Server) setTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.board.SetTheme(c.Request.Context(), req.Theme); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, themeRequest{Theme: s.board.Theme()})
}

func (s *Server) upgrade(c *gin.Context) {
	if err := s.board.Upgrade(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.settingsSnapshot())
}
