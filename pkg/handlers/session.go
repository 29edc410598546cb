package handlers

import (
	"hundred-minds/pkg/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const selectedTagKey = "selected_tag"

func loadSelection(c *gin.Context) services.TagSelection {
	session := sessions.Default(c)
	tag, _ := session.Get(selectedTagKey).(string)
	return services.TagSelection{Selected: tag}
}

func saveSelection(c *gin.Context, sel services.TagSelection) error {
	session := sessions.Default(c)
	if sel.Selected == "" {
		session.Delete(selectedTagKey)
	} else {
		session.Set(selectedTagKey, sel.Selected)
	}
	return session.Save()
}
