package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func pathID(c *gin.Context, name string) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(c.Param(name))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return 0, false
	}
	return id, true
}
