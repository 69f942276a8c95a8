package bitmap

// logo is a 20×20 PNG drawn by default.
const logo = `
iVBORw0KGgoAAAANSUhEUgAAABQAAAAUCAIAAAAC64paAAAAhElEQVR4nGNckOXEQC5gYWBg
eDTNjgydclmHmMi2loGBYeA0s8BZtf/rkSWaGRshIs2MjciyEC4VbEZoRjYSmY0sgiaO02a4
OyEMNE9h0YxpIX5ZfH7GbxZOzWiOxOpmAjYTBOia4U5FczNWL7BgCuGPM3w2kwSGqGYWBgYG
uaxD5GkGAJB3JOlpuqlXAAAAAElFTkSuQmCC
`
