package main

const quadVertexShader = `#version 410 core
layout(location = 0) in vec3 position;
layout(location = 1) in vec2 uv;

layout(std140) uniform ModelCamera {
	mat4 mvp;
	mat4 modelView;
	mat4 normalMatrix;
};

out vec2 fragUV;

void main() {
	fragUV = uv;
	gl_Position = mvp * vec4(position, 1.0);
}
`

const quadFragmentShader = `#version 410 core
in vec2 fragUV;
uniform sampler2D checker;
uniform vec4 tint;
out vec4 fragColor;

void main() {
	fragColor = texture(checker, fragUV) * tint;
}
`

const screenVertexShader = `#version 410 core
layout(location = 0) in vec3 position;
layout(location = 1) in vec2 uv;
uniform mat4 mvp;
out vec2 fragUV;

void main() {
	fragUV = uv;
	gl_Position = mvp * vec4(position, 1.0);
}
`

const screenFragmentShader = `#version 410 core
in vec2 fragUV;
uniform sampler2D image;
uniform vec2 resolution;
uniform int timeMs;
out vec4 fragColor;

void main() {
	float pulse = 0.3 + 0.05 * sin(float(timeMs) * 0.002);
	float vignette = 1.0 - pulse * length(gl_FragCoord.xy / resolution - 0.5);
	fragColor = vec4(texture(image, fragUV).rgb * vignette, 1.0);
}
`
