package app

import (
	"github.com/vk/plugtree/modules/env_vars"
	"github.com/vk/plugtree/modules/file_writer"
	"github.com/vk/plugtree/modules/group"
	"github.com/vk/plugtree/modules/http_probe"
	"github.com/vk/plugtree/modules/print"
	"github.com/vk/plugtree/registry"
)

// coreModules is the definitive list of all modules that are compiled into
// the plugtree binary.
var coreModules = []registry.Module{
	&env_vars.Module{},
	&file_writer.Module{},
	&group.Module{},
	&http_probe.Module{},
	&print.Module{},
}
